// Package aggregate implements the three grouping aggregators the
// search.Driver can run: cheapest-by-destination, cheapest-by-country,
// and cheapest-by-(destination,date). Each is grounded on one of
// original_source/src's DealsCheapestByDatesSimple (deals.cpp),
// CheapestByCountry (deals_cheapest_by_country.cpp) and
// DealsCheapestDayByDay (deals.cpp / deals_cheapest_by_date.hpp).
package aggregate

import (
	"sort"

	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/filter"
)

// replace reports whether candidate should overwrite current in a
// per-group slot: strictly cheaper always wins; an equally-priced,
// same-shape candidate wins too and is marked Overridden, so a newer
// ingest of the same fare supersedes a stale one (deals.cpp's
// process_deal tie-break, repeated verbatim by all three aggregators).
func replace(current, candidate *dealmodel.DealInfo) (replaceIt bool, overridden bool) {
	if current.Price == 0 || current.Price > candidate.Price {
		return true, false
	}
	if candidate.DepartureDate == current.DepartureDate &&
		candidate.ReturnDate == current.ReturnDate &&
		candidate.Flags.Direct == current.Flags.Direct {
		return true, true
	}
	return false, false
}

// ByDestination groups the cheapest live deal per destination city. Once
// more destinations have been seen than the requested result count, any
// record priced at or above the current grouped_max_price threshold is
// skipped without grouping, and each record that gets past the skip
// lowers the threshold to its own price — the grouped_max_price
// early-skip from DealsCheapestByDatesSimple::process_deal.
type ByDestination struct {
	resultCount int
	limit       uint16

	groups        map[uint32]dealmodel.DealInfo
	groupMaxPrice uint32

	result []dealmodel.DealInfo
}

// NewByDestination builds an aggregator targeting resultCount groups
// (the destination filter's cardinality, or the query limit when no
// destination filter is set).
func NewByDestination() *ByDestination {
	return &ByDestination{groups: make(map[uint32]dealmodel.DealInfo)}
}

func (a *ByDestination) PreSearch(fs *filter.FilterSet) error {
	if fs.DestinationEnabled {
		a.resultCount = len(fs.Destinations)
	} else {
		a.resultCount = int(fs.Limit)
	}
	a.limit = fs.Limit
	a.groupMaxPrice = 0
	return nil
}

func (a *ByDestination) Reduce(d *dealmodel.DealInfo) {
	if len(a.groups) > a.resultCount {
		if a.groupMaxPrice <= d.Price {
			return
		}
		a.groupMaxPrice = d.Price
	} else if a.groupMaxPrice < d.Price {
		a.groupMaxPrice = d.Price
	}

	current, exists := a.groups[d.Destination]
	if !exists {
		a.groups[d.Destination] = *d
		return
	}
	if ok, overridden := replace(&current, d); ok {
		next := *d
		next.Flags.Overridden = overridden
		a.groups[d.Destination] = next
	}
}

func (a *ByDestination) PostSearch() {
	result := make([]dealmodel.DealInfo, 0, len(a.groups))
	for _, d := range a.groups {
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Price < result[j].Price })

	if len(result) > a.resultCount {
		result = result[:a.resultCount]
	}
	if a.limit > 0 && len(result) > int(a.limit) {
		result = result[:a.limit]
	}

	a.result = result
}

// Result returns the cheapest deal per destination, sorted by price
// ascending, capped at the requested result count and limit.
func (a *ByDestination) Result() []dealmodel.DealInfo {
	return a.result
}
