// Package filter implements the Filter Set: a validated, immutable
// collection of the query predicates the Scan Driver evaluates against
// every record. Grounded on original_source/src/search_query.hpp's
// SearchQuery setters and the validation spread across deals.cpp's
// process_element — consolidated here into a single constructor that
// validates everything up front, so a broken query never reaches a scan
// (spec §4.3/§4.4: "Any malformed input sets query_is_broken; execute()
// then fails with a request error before scanning").
package filter

import (
	"strings"

	"github.com/foxdalas/deals-server/clock"
	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
	"github.com/foxdalas/deals-server/internal/codec"
)

// allWeekdaysMask is the default departure/return weekday bitmask when
// the caller doesn't restrict by day of week: every one of the 7 bits
// (Monday=0..Sunday=6) set.
const allWeekdaysMask uint8 = 0x7F

// DefaultLimit is the result_limit used when a caller passes 0.
const DefaultLimit uint16 = 20

// Params carries the external query API's fields (spec.md §6). Empty
// strings disable the corresponding filter; numeric zeros disable
// price/stay.
type Params struct {
	Origin string

	Destinations string // CSV of IATA codes

	DepartureFrom, DepartureTo string // "YYYY-MM-DD", both-empty disables
	DepartureWeekdays          string // CSV of weekday abbreviations (mon..sun)

	ReturnFrom, ReturnTo string
	ReturnWeekdays       string

	StayFrom, StayTo uint16

	Direct    dealmodel.Threelean
	Roundtrip dealmodel.Threelean

	PriceFrom, PriceTo uint32

	Locale string

	Limit          uint16
	MaxLifetimeSec uint32
}

// FilterSet is the validated result of parsing Params. Zero-value fields
// paired with a false *Enabled flag mean "this filter doesn't apply".
type FilterSet struct {
	OriginEnabled bool
	Origin        uint32

	DestinationEnabled bool
	Destinations       map[uint32]struct{}

	DepartureDateEnabled bool
	DepartureFrom        uint32
	DepartureTo          uint32
	DepartureDuration    uint32 // to - from + 1 days, computed at enable time

	ReturnDateEnabled bool
	ReturnFrom        uint32
	ReturnTo          uint32

	DepartureWeekdaysEnabled bool
	DepartureWeekdaysMask    uint8

	ReturnWeekdaysEnabled bool
	ReturnWeekdaysMask    uint8

	StayDaysEnabled bool
	StayFrom        uint8
	StayTo          uint8

	DirectEnabled bool
	Direct        bool

	RoundtripEnabled bool
	Roundtrip        bool

	PriceEnabled bool
	PriceFrom    uint32
	PriceTo      uint32

	LocaleEnabled bool
	Locale        uint16

	Limit uint16

	TimestampFloorEnabled bool
	TimestampFloor        uint32
}

// New validates p and returns an enabled FilterSet, or a
// *dealserr.QueryError describing the first malformed parameter.
//
// Validation runs in the same order deals.cpp's process_element
// evaluates filters, so error precedence matches the original: origin,
// destinations, departure range, return range, stay days, direct/stops,
// roundtrip shape, departure weekdays, return weekdays, price, locale.
func New(p Params) (*FilterSet, error) {
	fs := &FilterSet{Limit: p.Limit}
	if fs.Limit == 0 {
		fs.Limit = DefaultLimit
	}

	if p.MaxLifetimeSec > 0 {
		fs.TimestampFloorEnabled = true
		now := clock.Now()
		if p.MaxLifetimeSec > now {
			fs.TimestampFloor = 0
		} else {
			fs.TimestampFloor = now - p.MaxLifetimeSec
		}
	}

	if err := fs.applyOrigin(p.Origin); err != nil {
		return nil, err
	}
	fs.applyDestinations(p.Destinations)
	if err := fs.applyDepartureRange(p.DepartureFrom, p.DepartureTo); err != nil {
		return nil, err
	}
	if err := fs.applyReturnRange(p.ReturnFrom, p.ReturnTo); err != nil {
		return nil, err
	}
	if err := fs.applyStayDays(p.StayFrom, p.StayTo); err != nil {
		return nil, err
	}
	if err := fs.applyDirect(p.Direct); err != nil {
		return nil, err
	}
	if err := fs.applyRoundtrip(p.Roundtrip); err != nil {
		return nil, err
	}
	if err := fs.applyWeekdays(p.DepartureWeekdays, &fs.DepartureWeekdaysEnabled, &fs.DepartureWeekdaysMask, "departure_weekdays"); err != nil {
		return nil, err
	}
	if err := fs.applyWeekdays(p.ReturnWeekdays, &fs.ReturnWeekdaysEnabled, &fs.ReturnWeekdaysMask, "return_weekdays"); err != nil {
		return nil, err
	}
	if err := fs.applyPrice(p.PriceFrom, p.PriceTo); err != nil {
		return nil, err
	}
	if err := fs.applyLocale(p.Locale); err != nil {
		return nil, err
	}

	return fs, nil
}

func (fs *FilterSet) applyOrigin(origin string) error {
	if origin == "" {
		return nil
	}
	code := codec.OriginToCode(origin)
	if code == 0 {
		return dealserr.BadRequest("origin", "must be exactly 3 uppercase letters")
	}
	fs.OriginEnabled = true
	fs.Origin = code
	return nil
}

// applyDestinations drops malformed IATA codes silently, matching
// deals.cpp's destination-set construction. A destination filter that
// ends up empty is still "enabled" — it is up to the aggregator's
// pre_search to decide whether an empty set is itself an error (spec
// §4.5: CheapestByDate requires a non-empty destination filter, the
// other aggregators don't).
func (fs *FilterSet) applyDestinations(csv string) {
	if csv == "" {
		return
	}
	set := make(map[uint32]struct{})
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if code := codec.OriginToCode(tok); code != 0 {
			set[code] = struct{}{}
		}
	}
	fs.DestinationEnabled = true
	fs.Destinations = set
}

func (fs *FilterSet) applyDepartureRange(from, to string) error {
	if from == "" && to == "" {
		return nil
	}
	if from == "" || to == "" {
		return dealserr.BadRequest("departure_date", "both departure_from and departure_to are required")
	}
	f := codec.DateToInt(from)
	if f == 0 {
		return dealserr.BadRequest("departure_from", "malformed date")
	}
	t := codec.DateToInt(to)
	if t == 0 {
		return dealserr.BadRequest("departure_to", "malformed date")
	}
	if f > t {
		return dealserr.BadRequest("departure_date", "departure_from must not be after departure_to")
	}
	fs.DepartureDateEnabled = true
	fs.DepartureFrom = f
	fs.DepartureTo = t
	fs.DepartureDuration = codec.DaysBetweenDates(from, to) + 1
	return nil
}

func (fs *FilterSet) applyReturnRange(from, to string) error {
	if from == "" && to == "" {
		return nil
	}
	if from == "" || to == "" {
		return dealserr.BadRequest("return_date", "both return_from and return_to are required")
	}
	f := codec.DateToInt(from)
	if f == 0 {
		return dealserr.BadRequest("return_from", "malformed date")
	}
	t := codec.DateToInt(to)
	if t == 0 {
		return dealserr.BadRequest("return_to", "malformed date")
	}
	if f > t {
		return dealserr.BadRequest("return_date", "return_from must not be after return_to")
	}
	fs.ReturnDateEnabled = true
	fs.ReturnFrom = f
	fs.ReturnTo = t
	return nil
}

func (fs *FilterSet) applyStayDays(from, to uint16) error {
	if from == 0 && to == 0 {
		return nil
	}
	if from > to {
		return dealserr.BadRequest("stay_days", "stay_from must not be greater than stay_to")
	}
	if to > 254 {
		return dealserr.BadRequest("stay_days", "stay_to must be less than 255")
	}
	fs.StayDaysEnabled = true
	fs.StayFrom = uint8(from)
	fs.StayTo = uint8(to)
	return nil
}

func (fs *FilterSet) applyDirect(t dealmodel.Threelean) error {
	switch t {
	case dealmodel.Undefined:
		return nil
	case dealmodel.True:
		fs.DirectEnabled = true
		fs.Direct = true
		return nil
	case dealmodel.False:
		fs.DirectEnabled = true
		fs.Direct = false
		return nil
	default:
		return dealserr.BadRequest("direct", "unrecognized tri-state value")
	}
}

func (fs *FilterSet) applyRoundtrip(t dealmodel.Threelean) error {
	switch t {
	case dealmodel.Undefined:
		return nil
	case dealmodel.True:
		fs.RoundtripEnabled = true
		fs.Roundtrip = true
		return nil
	case dealmodel.False:
		fs.RoundtripEnabled = true
		fs.Roundtrip = false
		return nil
	default:
		return dealserr.BadRequest("roundtrip", "unrecognized tri-state value")
	}
}

// applyWeekdays parses a CSV of weekday abbreviations into a bitmask. An
// empty csv leaves the filter disabled, which the Scan Driver treats as
// allWeekdaysMask — every day passes.
func (fs *FilterSet) applyWeekdays(csv string, enabled *bool, mask *uint8, field string) error {
	if csv == "" {
		return nil
	}
	var m uint8
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(strings.ToLower(tok))
		if tok == "" {
			continue
		}
		day := codec.WeekdayFromName(tok)
		if day == codec.InvalidWeekday {
			return dealserr.BadRequest(field, "unrecognized weekday: "+tok)
		}
		m |= 1 << day
	}
	if m == 0 {
		return dealserr.BadRequest(field, "at least one weekday must be named")
	}
	*enabled = true
	*mask = m
	return nil
}

func (fs *FilterSet) applyPrice(from, to uint32) error {
	if from == 0 && to == 0 {
		return nil
	}
	if to != 0 && from > to {
		return dealserr.BadRequest("price", "price_from must not be greater than price_to")
	}
	fs.PriceEnabled = true
	fs.PriceFrom = from
	fs.PriceTo = to
	return nil
}

func (fs *FilterSet) applyLocale(locale string) error {
	if locale == "" {
		return nil
	}
	code := codec.LocaleToCode(locale)
	if code == 0 {
		return dealserr.BadRequest("locale", "must be exactly 2 letters")
	}
	fs.LocaleEnabled = true
	fs.Locale = code
	return nil
}

// EffectiveDepartureWeekdaysMask returns the bitmask to test against,
// substituting allWeekdaysMask when the filter wasn't set.
func (fs *FilterSet) EffectiveDepartureWeekdaysMask() uint8 {
	if !fs.DepartureWeekdaysEnabled {
		return allWeekdaysMask
	}
	return fs.DepartureWeekdaysMask
}

// EffectiveReturnWeekdaysMask returns the bitmask to test against,
// substituting allWeekdaysMask when the filter wasn't set.
func (fs *FilterSet) EffectiveReturnWeekdaysMask() uint8 {
	if !fs.ReturnWeekdaysEnabled {
		return allWeekdaysMask
	}
	return fs.ReturnWeekdaysMask
}

// Match reports whether a deal record satisfies every enabled filter, in
// the fixed order deals.cpp's process_element evaluates them: origin,
// timestamp floor, roundtrip shape, destination set, departure-date
// range, return-date range, stay-days range (only meaningful when the
// record is a round trip), direct/stops, departure weekday, return
// weekday (only meaningful when the record is a round trip), price.
func (fs *FilterSet) Match(d *dealmodel.DealInfo) bool {
	if fs.OriginEnabled && d.Origin != fs.Origin {
		return false
	}
	if fs.TimestampFloorEnabled && d.Timestamp < fs.TimestampFloor {
		return false
	}

	isRoundtrip := d.ReturnDate != 0
	if fs.RoundtripEnabled && fs.Roundtrip != isRoundtrip {
		return false
	}

	if fs.DestinationEnabled {
		if _, ok := fs.Destinations[d.Destination]; !ok {
			return false
		}
	}

	if fs.DepartureDateEnabled {
		if d.DepartureDate < fs.DepartureFrom || d.DepartureDate > fs.DepartureTo {
			return false
		}
	}

	if fs.ReturnDateEnabled {
		if !isRoundtrip {
			return false
		}
		if d.ReturnDate < fs.ReturnFrom || d.ReturnDate > fs.ReturnTo {
			return false
		}
	}

	if fs.StayDaysEnabled && isRoundtrip {
		if d.StayDays < fs.StayFrom || d.StayDays > fs.StayTo {
			return false
		}
	}

	if fs.DirectEnabled && d.Flags.Direct != fs.Direct {
		return false
	}

	if fs.DepartureWeekdaysEnabled {
		if 1<<d.Flags.DepartureDOW&fs.DepartureWeekdaysMask == 0 {
			return false
		}
	}

	if fs.ReturnWeekdaysEnabled && isRoundtrip {
		if 1<<d.Flags.ReturnDOW&fs.ReturnWeekdaysMask == 0 {
			return false
		}
	}

	if fs.PriceEnabled {
		if d.Price < fs.PriceFrom || (fs.PriceTo != 0 && d.Price > fs.PriceTo) {
			return false
		}
	}

	return true
}
