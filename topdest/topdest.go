// Package topdest implements the Top-Destinations Index: a secondary,
// append-only popularity count of which destinations callers searched
// for, filterable by locale and departure-date range. Grounded on
// original_source/src/top_destinations.cpp's TopDstDatabase/
// TopDstSearchQuery — the linear "find or append" counting loop there is
// replaced with a map, which is the idiomatic Go equivalent of the same
// count-by-destination accumulation.
package topdest

import (
	"sort"

	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
	"github.com/foxdalas/deals-server/internal/codec"
	"github.com/foxdalas/deals-server/internal/table"
)

// DefaultLimit is the result_limit used when a caller passes 0.
const DefaultLimit uint16 = 10

// Destination is one row of a Top call's result: a destination and how
// many matching observations it had.
type Destination struct {
	Destination string
	Count       int
}

// Index is the top-destinations popularity table.
type Index struct {
	table *table.Table[dealmodel.DstInfo]
}

// New builds an empty Index with the given page geometry and expiry.
func New(opts table.Options) *Index {
	return &Index{table: table.New[dealmodel.DstInfo](opts)}
}

// Add records one destination-search observation. locale and destination
// must each decode to a non-zero code; departureDate must parse.
func (idx *Index) Add(locale, destination, departureDate string) error {
	localeCode := codec.LocaleToCode(locale)
	if localeCode == 0 {
		return dealserr.BadRequest("locale", "must be exactly 2 letters")
	}
	destCode := codec.OriginToCode(destination)
	if destCode == 0 {
		return dealserr.BadRequest("destination", "must be exactly 3 uppercase letters")
	}
	dateCode := codec.DateToInt(departureDate)
	if dateCode == 0 {
		return dealserr.BadRequest("departure_date", "malformed date")
	}

	_, err := idx.table.Append(dealmodel.DstInfo{
		Locale:        localeCode,
		Destination:   destCode,
		DepartureDate: dateCode,
	})
	return err
}

// Top returns the most-observed destinations matching locale (if
// non-empty) and the [departureFrom, departureTo] range (if both
// non-empty), sorted by observation count descending, capped at limit.
func (idx *Index) Top(locale, departureFrom, departureTo string, limit uint16) ([]Destination, error) {
	if limit == 0 {
		limit = DefaultLimit
	}

	var localeFilter uint16
	filterLocale := locale != ""
	if filterLocale {
		localeFilter = codec.LocaleToCode(locale)
		if localeFilter == 0 {
			return nil, dealserr.BadRequest("locale", "must be exactly 2 letters")
		}
	}

	var dateFrom, dateTo uint32
	filterDate := departureFrom != "" || departureTo != ""
	if filterDate {
		if departureFrom == "" || departureTo == "" {
			return nil, dealserr.BadRequest("departure_date", "both departure_from and departure_to are required")
		}
		dateFrom = codec.DateToInt(departureFrom)
		dateTo = codec.DateToInt(departureTo)
		if dateFrom == 0 || dateTo == 0 {
			return nil, dealserr.BadRequest("departure_date", "malformed date")
		}
		if dateFrom > dateTo {
			return nil, dealserr.BadRequest("departure_date", "departure_from must not be after departure_to")
		}
	}

	counts := make(map[uint32]int)

	idx.table.Scan(func(pageID uint32, records []dealmodel.DstInfo) {
		for i := range records {
			rec := &records[i]
			if filterLocale && rec.Locale != localeFilter {
				continue
			}
			if filterDate && (rec.DepartureDate < dateFrom || rec.DepartureDate > dateTo) {
				continue
			}
			counts[rec.Destination]++
		}
	})

	result := make([]Destination, 0, len(counts))
	for code, count := range counts {
		result = append(result, Destination{Destination: codec.CodeToOrigin(code), Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Destination < result[j].Destination
	})

	if len(result) > int(limit) {
		result = result[:limit]
	}

	return result, nil
}

// Truncate drops every recorded observation.
func (idx *Index) Truncate() {
	idx.table.Truncate()
}
