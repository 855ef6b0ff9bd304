package aggregate

import (
	"sort"

	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
	"github.com/foxdalas/deals-server/filter"
)

// maxResultCells bounds destinations * departure_date_duration, the same
// "3 cities * 366 days" style cap deals.cpp's DealsCheapestDayByDay
// enforces.
const maxResultCells = 1098

// ByDate groups the cheapest live deal per (destination, departure date)
// pair, unlike ByDestination and ByCountry this requires an enabled
// destination filter and departure-date range up front — there is no
// grouped_max_price early-skip here, because every cell must be
// considered independently. Grounded on deals.cpp's DealsCheapestDayByDay
// (also declared in deals_cheapest_by_date.hpp).
type ByDate struct {
	groups map[uint32]map[uint32]dealmodel.DealInfo

	result []dealmodel.DealInfo
}

func NewByDate() *ByDate {
	return &ByDate{groups: make(map[uint32]map[uint32]dealmodel.DealInfo)}
}

func (a *ByDate) PreSearch(fs *filter.FilterSet) error {
	if !fs.DestinationEnabled || len(fs.Destinations) == 0 {
		return dealserr.ErrMissingDestinations
	}
	if !fs.DepartureDateEnabled || fs.DepartureDuration == 0 {
		return dealserr.ErrMissingDepartureRange
	}

	cells := uint64(len(fs.Destinations)) * uint64(fs.DepartureDuration)
	if cells > maxResultCells {
		return dealserr.ErrTooManyCells
	}

	return nil
}

func (a *ByDate) Reduce(d *dealmodel.DealInfo) {
	dates, ok := a.groups[d.Destination]
	if !ok {
		dates = make(map[uint32]dealmodel.DealInfo)
		a.groups[d.Destination] = dates
	}

	current, exists := dates[d.DepartureDate]
	if !exists {
		dates[d.DepartureDate] = *d
		return
	}
	if ok, overridden := replace(&current, d); ok {
		next := *d
		next.Flags.Overridden = overridden
		dates[d.DepartureDate] = next
	}
}

func (a *ByDate) PostSearch() {
	var result []dealmodel.DealInfo
	for _, dates := range a.groups {
		for _, d := range dates {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].DepartureDate < result[j].DepartureDate })

	a.result = result
}

// Result returns the cheapest deal per (destination, departure date)
// pair, sorted by departure date ascending.
func (a *ByDate) Result() []dealmodel.DealInfo {
	return a.result
}
