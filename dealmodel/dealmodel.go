// Package dealmodel defines the fixed-size index records the engine
// scans: DealInfo (the deal index) and DstInfo (the top-destinations
// index), plus the tri-state Threelean used throughout the query API.
//
// Field layout mirrors original_source/src/deals.hpp's i::DealInfo and
// top_destinations.hpp's i::DstInfo as described in spec.md §3.
package dealmodel

import "github.com/foxdalas/deals-server/internal/table"

// Threelean is a three-valued logic variant used for query parameters
// that need an explicit "don't care" state distinct from both true and
// false — a filter is only enabled in the two determinate cases.
type Threelean uint8

const (
	Undefined Threelean = iota
	True
	False
)

// Flags packs the per-deal boolean/enum bits that don't need their own
// machine word: whether the flight is direct, whether this record
// replaced an equally-priced earlier candidate (overridden is set only
// by aggregators, never by ingestion), and the Monday=0..Sunday=6
// departure/return day of week.
type Flags struct {
	Direct       bool
	Overridden   bool
	DepartureDOW uint8
	ReturnDOW    uint8
}

// StayDaysNotApplicable is the clamp value for one-way deals, where
// "stay days" has no meaning.
const StayDaysNotApplicable uint8 = 255

// DealInfo is the fixed-size index record for one flight offer.
type DealInfo struct {
	Timestamp          uint32 // ingest time, seconds since epoch; drives expiry
	Origin             uint32 // IATA code, packed by internal/codec
	Destination        uint32
	DestinationCountry uint32 // optional; zero when not populated by ingest
	DepartureDate      uint32 // YYYYMMDD
	ReturnDate         uint32 // YYYYMMDD, zero means one-way
	StayDays           uint8  // min(255, days_between(departure, return)); 255 if one-way
	Flags              Flags
	Price              uint32
	PayloadLocator     table.Locator
}

// DstInfo is the fixed-size index record the top-destinations index
// scans: one observation of a (locale, destination, departure date)
// tuple.
type DstInfo struct {
	Locale        uint16
	Destination   uint32
	DepartureDate uint32
}
