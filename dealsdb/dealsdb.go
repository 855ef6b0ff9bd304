// Package dealsdb is the Deal Database facade: it owns the deal index,
// the opaque payload table, and the top-destinations index, and exposes
// the ingest and search operations the rest of the engine's callers use.
// Grounded on the teacher's dbase.DBase (Options embedded in the facade
// struct, a New(opts) constructor, here returning just *DB) and on original_source/src/deals.cpp's
// DealsDatabase (addDeal, truncate, searchForCheapest,
// searchForCheapestDayByDay, searchForCheapestByCountry,
// fill_deals_with_data).
package dealsdb

import (
	"github.com/foxdalas/deals-server/aggregate"
	"github.com/foxdalas/deals-server/clock"
	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
	"github.com/foxdalas/deals-server/filter"
	"github.com/foxdalas/deals-server/internal/applog"
	"github.com/foxdalas/deals-server/internal/codec"
	"github.com/foxdalas/deals-server/internal/payload"
	"github.com/foxdalas/deals-server/internal/table"
	"github.com/foxdalas/deals-server/search"
	"github.com/foxdalas/deals-server/topdest"
)

// Options configures every table the facade owns.
type Options struct {
	IndexRecordsPerPage uint32
	IndexMaxPages       uint32
	IndexExpirySeconds  uint32

	PayloadSlotSize       uint32
	PayloadRecordsPerPage uint32
	PayloadMaxPages       uint32
	PayloadExpirySeconds  uint32

	TopDestRecordsPerPage uint32
	TopDestMaxPages       uint32
	TopDestExpirySeconds  uint32

	// Logger receives Debug/Warn events for things a caller might want
	// visibility into (table-full appends, expired-payload hydration)
	// but that are never themselves request failures. Defaults to a
	// no-op logger.
	Logger applog.Logger
}

// DB is the Deal Database facade.
type DB struct {
	Options

	index   *table.Table[dealmodel.DealInfo]
	payload *payload.Table
	topdest *topdest.Index
	driver  *search.Driver
	log     applog.Logger
}

// New builds an empty DB from opts.
func New(opts Options) *DB {
	if opts.Logger == nil {
		opts.Logger = applog.Nop{}
	}

	index := table.New[dealmodel.DealInfo](table.Options{
		RecordsPerPage: opts.IndexRecordsPerPage,
		MaxPages:       opts.IndexMaxPages,
		ExpirySeconds:  opts.IndexExpirySeconds,
	})

	return &DB{
		Options: opts,
		index:   index,
		payload: payload.New(payload.Options{
			SlotSize:       opts.PayloadSlotSize,
			RecordsPerPage: opts.PayloadRecordsPerPage,
			MaxPages:       opts.PayloadMaxPages,
			ExpirySeconds:  opts.PayloadExpirySeconds,
		}),
		topdest: topdest.New(table.Options{
			RecordsPerPage: opts.TopDestRecordsPerPage,
			MaxPages:       opts.TopDestMaxPages,
			ExpirySeconds:  opts.TopDestExpirySeconds,
		}),
		driver: search.NewDriver(index),
		log:    opts.Logger,
	}
}

// Deal is the hydrated, externally-facing form of a stored record:
// human-readable codes, the decoded payload, and no internal locators.
// Grounded on deals.cpp's fill_deals_with_data, which performs the same
// transform from i::DealInfo to DealInfo.
type Deal struct {
	Timestamp          uint32
	Origin             string
	Destination        string
	DestinationCountry string
	DepartureDate      string
	ReturnDate         string
	StayDays           uint8
	Direct             bool
	Overridden         bool
	DepartureWeekday   string
	ReturnWeekday      string
	Price              uint32
	Data               []byte
}

// AddDeal ingests one flight offer: origin and destination must each be
// exactly 3 uppercase letters, departureDate must parse, returnDate may
// be empty (one-way). destinationCountry is optional (spec's resolution
// of Open Question (a): it's a new ingest parameter, not derived).
func (db *DB) AddDeal(origin, destination, destinationCountry, departureDate, returnDate string, direct bool, price uint32, data []byte) error {
	originCode := codec.OriginToCode(origin)
	if originCode == 0 {
		return dealserr.BadRequest("origin", "must be exactly 3 uppercase letters")
	}
	destCode := codec.OriginToCode(destination)
	if destCode == 0 {
		return dealserr.BadRequest("destination", "must be exactly 3 uppercase letters")
	}
	departureCode := codec.DateToInt(departureDate)
	if departureCode == 0 {
		return dealserr.BadRequest("departure_date", "malformed date")
	}

	var countryCode uint32
	if destinationCountry != "" {
		countryCode = codec.OriginToCode(destinationCountry)
		if countryCode == 0 {
			return dealserr.BadRequest("destination_country", "must be exactly 3 uppercase letters")
		}
	}

	returnCode := codec.DateToInt(returnDate)

	loc, err := db.payload.Append(data)
	if err != nil {
		return err
	}

	// A one-way deal has no meaningful stay length; 255 (the max uint8)
	// doubles as both "not applicable" and "255+ days", matching
	// deals.cpp's own ambiguity here.
	stayDays := dealmodel.StayDaysNotApplicable
	if returnCode != 0 {
		days := codec.DaysBetweenDates(departureDate, returnDate)
		if days > uint32(dealmodel.StayDaysNotApplicable) {
			days = uint32(dealmodel.StayDaysNotApplicable)
		}
		stayDays = uint8(days)
	}

	info := dealmodel.DealInfo{
		Timestamp:          clock.Now(),
		Origin:             originCode,
		Destination:        destCode,
		DestinationCountry: countryCode,
		DepartureDate:      departureCode,
		ReturnDate:         returnCode,
		StayDays:           stayDays,
		Flags: dealmodel.Flags{
			Direct:       direct,
			DepartureDOW: codec.WeekdayFromDate(departureDate),
			ReturnDOW:    codec.WeekdayFromDate(returnDate),
		},
		Price:          price,
		PayloadLocator: loc,
	}

	if _, err := db.index.Append(info); err != nil {
		db.log.Warn("deal index append failed", "error", err)
		return err
	}

	return nil
}

// SearchCheapestByDestination returns the cheapest live deal per
// destination city matching p, sorted by price ascending.
func (db *DB) SearchCheapestByDestination(p filter.Params) ([]Deal, error) {
	return db.runAggregation(p, aggregate.NewByDestination())
}

// SearchCheapestByCountry returns the cheapest live deal per destination
// country matching p, sorted by country code ascending.
func (db *DB) SearchCheapestByCountry(p filter.Params) ([]Deal, error) {
	return db.runAggregation(p, aggregate.NewByCountry())
}

// SearchCheapestByDate returns the cheapest live deal per
// (destination, departure date) pair matching p. Requires p to enable
// both a destination filter and a departure-date range.
func (db *DB) SearchCheapestByDate(p filter.Params) ([]Deal, error) {
	return db.runAggregation(p, aggregate.NewByDate())
}

type resultAggregator interface {
	search.Aggregator
	Result() []dealmodel.DealInfo
}

func (db *DB) runAggregation(p filter.Params, agg resultAggregator) ([]Deal, error) {
	fs, err := filter.New(p)
	if err != nil {
		return nil, err
	}

	if err := db.driver.Execute(fs, agg); err != nil {
		return nil, err
	}

	records := agg.Result()
	deals := make([]Deal, 0, len(records))
	for i := range records {
		deals = append(deals, db.hydrate(&records[i]))
	}
	return deals, nil
}

// hydrate converts an internal record into its external form, reading
// the payload table for the opaque bytes. An expired payload hydrates to
// an empty Data slice rather than failing the whole search (spec §7).
func (db *DB) hydrate(d *dealmodel.DealInfo) Deal {
	data, ok := db.payload.Read(d.PayloadLocator)
	if !ok {
		db.log.Debug("payload expired during hydration", "page_id", d.PayloadLocator.PageID)
		data = nil
	}

	return Deal{
		Timestamp:          d.Timestamp,
		Origin:             codec.CodeToOrigin(d.Origin),
		Destination:        codec.CodeToOrigin(d.Destination),
		DestinationCountry: codec.CodeToOrigin(d.DestinationCountry),
		DepartureDate:      codec.IntToDate(d.DepartureDate),
		ReturnDate:         codec.IntToDate(d.ReturnDate),
		StayDays:           d.StayDays,
		Direct:             d.Flags.Direct,
		Overridden:         d.Flags.Overridden,
		DepartureWeekday:   codec.WeekdayName(d.Flags.DepartureDOW),
		ReturnWeekday:      codec.WeekdayName(d.Flags.ReturnDOW),
		Price:              d.Price,
		Data:               data,
	}
}

// RecordDestinationSearch records one top-destinations observation.
func (db *DB) RecordDestinationSearch(locale, destination, departureDate string) error {
	return db.topdest.Add(locale, destination, departureDate)
}

// TopDestinations returns the most-searched-for destinations matching
// locale and the departure-date range, most popular first.
func (db *DB) TopDestinations(locale, departureFrom, departureTo string, limit uint16) ([]topdest.Destination, error) {
	return db.topdest.Top(locale, departureFrom, departureTo, limit)
}

// Truncate drops every stored deal, payload, and top-destinations
// observation, returning the facade to empty.
func (db *DB) Truncate() {
	db.index.Truncate()
	db.payload.Truncate()
	db.topdest.Truncate()
}
