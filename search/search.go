// Package search implements the Scan Driver: it walks a deal table's live
// pages once, tests every record against a filter.FilterSet, and feeds
// survivors to a pluggable Aggregator. Grounded on deals.cpp's
// DealsSearchQuery::execute()/process_element() pairing and on the
// teacher's kdb.go interface style (small, one-method-per-step
// interfaces, doc comment per method).
package search

import (
	"github.com/foxdalas/deals-server/dealmodel"
	"github.com/foxdalas/deals-server/filter"
	"github.com/foxdalas/deals-server/internal/table"
)

// Aggregator consumes the records a Driver's scan lets through. PreSearch
// runs once before the scan starts, so an aggregator can reject a query
// its semantics can't satisfy (CheapestByDate needs destinations and a
// departure range; the others don't) before any work is done. Reduce
// runs once per matching record; pages are visited in no particular
// order, records in slot order within a page. PostSearch runs once after the scan completes, to finalize
// whatever running state Reduce accumulated.
type Aggregator interface {
	PreSearch(fs *filter.FilterSet) error
	Reduce(d *dealmodel.DealInfo)
	PostSearch()
}

// Driver runs an Aggregator against one deal table.
type Driver struct {
	table *table.Table[dealmodel.DealInfo]
}

// NewDriver builds a Driver over t.
func NewDriver(t *table.Table[dealmodel.DealInfo]) *Driver {
	return &Driver{table: t}
}

// Execute validates agg against fs, then performs exactly one scan over
// the table's live pages, calling agg.Reduce for every record fs.Match
// accepts, and agg.PostSearch once the scan completes.
func (d *Driver) Execute(fs *filter.FilterSet, agg Aggregator) error {
	if err := agg.PreSearch(fs); err != nil {
		return err
	}

	d.table.Scan(func(pageID uint32, records []dealmodel.DealInfo) {
		for i := range records {
			rec := &records[i]
			if fs.Match(rec) {
				agg.Reduce(rec)
			}
		}
	})

	agg.PostSearch()
	return nil
}
