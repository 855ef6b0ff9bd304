package filter

import (
	"errors"
	"testing"

	"github.com/foxdalas/deals-server/clock"
	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
)

func mustDeal() *dealmodel.DealInfo {
	return &dealmodel.DealInfo{
		Timestamp:     1000,
		Origin:        1,
		Destination:   2,
		DepartureDate: 20160501,
		ReturnDate:    20160521,
		StayDays:      20,
		Flags: dealmodel.Flags{
			Direct:       true,
			DepartureDOW: 6, // sunday
			ReturnDOW:    5, // saturday
		},
		Price: 5000,
	}
}

func TestNewDefaultsLimit(t *testing.T) {
	fs, err := New(Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.Limit != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, fs.Limit)
	}
}

func TestOriginRejectsLowercase(t *testing.T) {
	_, err := New(Params{Origin: "mow"})
	if !errors.Is(err, dealserr.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestDestinationsDropsInvalidSilently(t *testing.T) {
	fs, err := New(Params{Destinations: "MAD,xx,BER"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.Destinations) != 2 {
		t.Fatalf("expected 2 valid destinations, got %d", len(fs.Destinations))
	}
}

func TestDepartureRangeRequiresBothEnds(t *testing.T) {
	_, err := New(Params{DepartureFrom: "2016-05-01"})
	if !errors.Is(err, dealserr.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestDepartureRangeComputesDuration(t *testing.T) {
	fs, err := New(Params{DepartureFrom: "2016-05-01", DepartureTo: "2016-05-03"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.DepartureDuration != 3 {
		t.Fatalf("expected duration 3, got %d", fs.DepartureDuration)
	}
}

func TestDepartureRangeRejectsInverted(t *testing.T) {
	_, err := New(Params{DepartureFrom: "2016-05-10", DepartureTo: "2016-05-01"})
	if !errors.Is(err, dealserr.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestWeekdaysBuildsMask(t *testing.T) {
	fs, err := New(Params{DepartureWeekdays: "mon,wed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.DepartureWeekdaysMask != (1<<0 | 1<<2) {
		t.Fatalf("unexpected mask %b", fs.DepartureWeekdaysMask)
	}
}

func TestWeekdaysRejectsUnknownName(t *testing.T) {
	_, err := New(Params{DepartureWeekdays: "funday"})
	if !errors.Is(err, dealserr.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestMaxLifetimeComputesFloor(t *testing.T) {
	c := clock.UseTestClock(1000)
	defer clock.UseRealClock()
	_ = c

	fs, err := New(Params{MaxLifetimeSec: 400})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.TimestampFloorEnabled || fs.TimestampFloor != 600 {
		t.Fatalf("expected floor 600, got %d (enabled=%v)", fs.TimestampFloor, fs.TimestampFloorEnabled)
	}
}

func TestMatchRejectsMismatchedOrigin(t *testing.T) {
	fs, err := New(Params{
		Origin:            "SVO",
		Destinations:      "",
		DepartureFrom:     "2016-05-01",
		DepartureTo:       "2016-05-01",
		DepartureWeekdays: "sun",
		Direct:            dealmodel.True,
		Roundtrip:         dealmodel.True,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Origin doesn't match: filter should reject.
	d := mustDeal()
	if fs.Match(d) {
		t.Fatal("expected no match: origin differs")
	}
}

func TestMatchPriceRange(t *testing.T) {
	fs, err := New(Params{PriceFrom: 1000, PriceTo: 6000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := mustDeal()
	if !fs.Match(d) {
		t.Fatal("expected match within price range")
	}
	d.Price = 7000
	if fs.Match(d) {
		t.Fatal("expected no match above price_to")
	}
}

func TestMatchOneWayIgnoresReturnWeekdayFilter(t *testing.T) {
	fs, err := New(Params{ReturnWeekdays: "mon"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := mustDeal()
	d.ReturnDate = 0 // one-way
	if !fs.Match(d) {
		t.Fatal("expected one-way deal to bypass return weekday filter")
	}
}

func TestEffectiveWeekdayMaskDefaultsToAllDays(t *testing.T) {
	fs, err := New(Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.EffectiveDepartureWeekdaysMask() != allWeekdaysMask {
		t.Fatalf("expected default mask %b, got %b", allWeekdaysMask, fs.EffectiveDepartureWeekdaysMask())
	}
}
