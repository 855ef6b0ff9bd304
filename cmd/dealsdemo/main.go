// dealsdemo drives the deal database library end to end without any
// transport layer, mirroring the golden scenario in
// original_source/src/deals.cpp's unit_test(): three round trips from
// MOW, each the sole offer for its destination, searched back out
// cheapest-first with their payloads intact.
package main

import (
	"fmt"
	"log"

	"github.com/foxdalas/deals-server/dealsdb"
	"github.com/foxdalas/deals-server/filter"
	"github.com/foxdalas/deals-server/internal/applog"
)

func main() {
	logger := applog.New()

	db := dealsdb.New(dealsdb.Options{
		IndexRecordsPerPage: 1024,
		IndexMaxPages:       8,
		IndexExpirySeconds:  60,

		PayloadSlotSize:       256,
		PayloadRecordsPerPage: 1024,
		PayloadMaxPages:       8,
		PayloadExpirySeconds:  60,

		TopDestRecordsPerPage: 1024,
		TopDestMaxPages:       8,
		TopDestExpirySeconds:  60,

		Logger: logger,
	})

	deals := []struct {
		destination string
		departure   string
		ret         string
		price       uint32
		payload     string
	}{
		{"MAD", "2016-05-01", "2016-05-21", 5000, "7,7,7"},
		{"BER", "2016-06-01", "2016-06-11", 6000, "1, 2, 3, 4, 5, 6, 7, 8"},
		{"PAR", "2016-07-01", "2016-07-15", 7000, "1, 2, 3, 4, 5, 6, 7, 8"},
	}

	for _, d := range deals {
		err := db.AddDeal("MOW", d.destination, "", d.departure, d.ret, false, d.price, []byte(d.payload))
		if err != nil {
			log.Fatalf("add deal to %s: %v", d.destination, err)
		}
		if err := db.RecordDestinationSearch("ru", d.destination, d.departure); err != nil {
			log.Fatalf("record destination search for %s: %v", d.destination, err)
		}
	}

	result, err := db.SearchCheapestByDestination(filter.Params{Origin: "MOW"})
	if err != nil {
		log.Fatalf("search cheapest by destination: %v", err)
	}

	fmt.Println("cheapest deal per destination from MOW:")
	for _, deal := range result {
		fmt.Printf("  %s -> %s (%s / %s): %d, payload=%q\n",
			deal.Origin, deal.Destination, deal.DepartureDate, deal.ReturnDate, deal.Price, deal.Data)
	}

	top, err := db.TopDestinations("ru", "", "", 5)
	if err != nil {
		log.Fatalf("top destinations: %v", err)
	}

	fmt.Println("top searched destinations (locale ru):")
	for _, dst := range top {
		fmt.Printf("  %s: %d\n", dst.Destination, dst.Count)
	}
}
