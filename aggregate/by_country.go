package aggregate

import (
	"sort"

	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/filter"
)

// ByCountry groups the cheapest live deal per destination country.
// Grounded on deals_cheapest_by_country.cpp's CheapestByCountry; the
// same tie-break rule as ByDestination, grouped on DestinationCountry
// instead of Destination. The grouped_max_price early-skip differs from
// ByDestination's: here the running maximum only ever rises, so a record
// that gets past the skip never lowers it.
type ByCountry struct {
	resultCount int
	limit       uint16

	groups        map[uint32]dealmodel.DealInfo
	groupMaxPrice uint32

	result []dealmodel.DealInfo
}

func NewByCountry() *ByCountry {
	return &ByCountry{groups: make(map[uint32]dealmodel.DealInfo)}
}

func (a *ByCountry) PreSearch(fs *filter.FilterSet) error {
	if fs.DestinationEnabled {
		a.resultCount = len(fs.Destinations)
	} else {
		a.resultCount = int(fs.Limit)
	}
	a.limit = fs.Limit
	a.groupMaxPrice = 0
	return nil
}

func (a *ByCountry) Reduce(d *dealmodel.DealInfo) {
	if len(a.groups) > a.resultCount {
		if a.groupMaxPrice <= d.Price {
			return
		}
	}
	if a.groupMaxPrice < d.Price {
		a.groupMaxPrice = d.Price
	}

	current, exists := a.groups[d.DestinationCountry]
	if !exists {
		a.groups[d.DestinationCountry] = *d
		return
	}
	if ok, overridden := replace(&current, d); ok {
		next := *d
		next.Flags.Overridden = overridden
		a.groups[d.DestinationCountry] = next
	}
}

func (a *ByCountry) PostSearch() {
	result := make([]dealmodel.DealInfo, 0, len(a.groups))
	for _, d := range a.groups {
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DestinationCountry < result[j].DestinationCountry
	})

	if a.limit > 0 && len(result) > int(a.limit) {
		result = result[:a.limit]
	}

	a.result = result
}

// Result returns the cheapest deal per destination country, sorted by
// country code ascending.
func (a *ByCountry) Result() []dealmodel.DealInfo {
	return a.result
}
