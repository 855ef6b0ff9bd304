package aggregate

import (
	"errors"
	"testing"

	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/dealserr"
	"github.com/foxdalas/deals-server/filter"
)

func deal(destination, country, departureDate, price uint32) dealmodel.DealInfo {
	return dealmodel.DealInfo{
		Destination:        destination,
		DestinationCountry: country,
		DepartureDate:      departureDate,
		Price:              price,
	}
}

func TestByDestinationKeepsCheapestPerDestination(t *testing.T) {
	agg := NewByDestination()
	fs, err := filter.New(filter.Params{Destinations: "MAD,BER"})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); err != nil {
		t.Fatalf("unexpected presearch error: %v", err)
	}

	d1 := deal(1, 0, 20160501, 5000)
	d2 := deal(1, 0, 20160502, 3000)
	agg.Reduce(&d1)
	agg.Reduce(&d2)
	agg.PostSearch()

	result := agg.Result()
	if len(result) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result))
	}
	if result[0].Price != 3000 {
		t.Fatalf("expected cheapest price 3000, got %d", result[0].Price)
	}
}

func TestByDestinationOverridesEqualPriceSameShape(t *testing.T) {
	agg := NewByDestination()
	fs, err := filter.New(filter.Params{})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); err != nil {
		t.Fatalf("unexpected presearch error: %v", err)
	}

	d1 := deal(1, 0, 20160501, 5000)
	d2 := deal(1, 0, 20160501, 5000)
	agg.Reduce(&d1)
	agg.Reduce(&d2)
	agg.PostSearch()

	result := agg.Result()
	if len(result) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result))
	}
	if !result[0].Flags.Overridden {
		t.Fatal("expected the tie-break replacement to be flagged Overridden")
	}
}

func TestByCountryGroupsByCountryCode(t *testing.T) {
	agg := NewByCountry()
	fs, err := filter.New(filter.Params{})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); err != nil {
		t.Fatalf("unexpected presearch error: %v", err)
	}

	d1 := deal(1, 10, 20160501, 5000)
	d2 := deal(2, 10, 20160501, 3000)
	d3 := deal(3, 20, 20160501, 7000)
	agg.Reduce(&d1)
	agg.Reduce(&d2)
	agg.Reduce(&d3)
	agg.PostSearch()

	result := agg.Result()
	if len(result) != 2 {
		t.Fatalf("expected 2 country groups, got %d", len(result))
	}
	if result[0].DestinationCountry != 10 || result[0].Price != 3000 {
		t.Fatalf("expected cheapest-for-country-10 price 3000, got %+v", result[0])
	}
}

func TestByDateRequiresDestinations(t *testing.T) {
	agg := NewByDate()
	fs, err := filter.New(filter.Params{DepartureFrom: "2016-05-01", DepartureTo: "2016-05-02"})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); !errors.Is(err, dealserr.ErrMissingDestinations) {
		t.Fatalf("expected ErrMissingDestinations, got %v", err)
	}
}

func TestByDateRequiresDepartureRange(t *testing.T) {
	agg := NewByDate()
	fs, err := filter.New(filter.Params{Destinations: "MAD"})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); !errors.Is(err, dealserr.ErrMissingDepartureRange) {
		t.Fatalf("expected ErrMissingDepartureRange, got %v", err)
	}
}

func TestByDateRejectsTooManyCells(t *testing.T) {
	agg := NewByDate()
	fs, err := filter.New(filter.Params{
		Destinations:  "MAD,BER,PAR,LON",
		DepartureFrom: "2016-01-01",
		DepartureTo:   "2016-12-31",
	})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); !errors.Is(err, dealserr.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestByDateGroupsByDestinationAndDepartureDate(t *testing.T) {
	agg := NewByDate()
	fs, err := filter.New(filter.Params{Destinations: "MAD", DepartureFrom: "2016-05-01", DepartureTo: "2016-05-02"})
	if err != nil {
		t.Fatalf("unexpected filter error: %v", err)
	}
	if err := agg.PreSearch(fs); err != nil {
		t.Fatalf("unexpected presearch error: %v", err)
	}

	d1 := deal(1, 0, 20160501, 5000)
	d2 := deal(1, 0, 20160502, 3000)
	agg.Reduce(&d1)
	agg.Reduce(&d2)
	agg.PostSearch()

	result := agg.Result()
	if len(result) != 2 {
		t.Fatalf("expected 2 date cells, got %d", len(result))
	}
}
