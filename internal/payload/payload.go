// Package payload implements the variable-payload table: a second paged
// table (internal/table) whose "record" is a byte slab, used to store the
// opaque per-deal bytes referenced by locator from the deal index. The
// engine never interprets payload contents (grounded on deals.cpp's
// DealData being treated as an opaque char buffer).
package payload

import (
	"github.com/foxdalas/deals-server/internal/table"
)

// Table stores opaque byte payloads. Each page slot is a fixed-capacity
// byte slice; a payload narrower than a slot leaves the remainder unused,
// recorded in the Locator's Size field.
type Table struct {
	slots *table.Table[[]byte]
	slot  uint32
}

// Options configures the payload table's page geometry.
type Options struct {
	SlotSize       uint32
	RecordsPerPage uint32
	MaxPages       uint32
	ExpirySeconds  uint32
}

// New creates an empty payload Table.
func New(opts Options) *Table {
	return &Table{
		slots: table.New[[]byte](table.Options{
			RecordsPerPage: opts.RecordsPerPage,
			MaxPages:       opts.MaxPages,
			ExpirySeconds:  opts.ExpirySeconds,
		}),
		slot: opts.SlotSize,
	}
}

// Append stores data in a fresh slot and returns its locator. Data longer
// than the configured slot size is rejected with table.ErrInvalidSize.
func (t *Table) Append(data []byte) (table.Locator, error) {
	if uint32(len(data)) > t.slot {
		return table.Locator{}, table.ErrInvalidSize
	}

	stored := make([]byte, t.slot)
	copy(stored, data)

	loc, err := t.slots.Append(stored)
	if err != nil {
		return table.Locator{}, err
	}

	loc.Size = uint32(len(data))
	return loc, nil
}

// Read returns a fresh copy of the bytes at loc. A locator whose page has
// expired yields an empty slice and ok=false — hydration treats that as
// an empty payload, never a failure (spec §7).
func (t *Table) Read(loc table.Locator) (data []byte, ok bool) {
	stored, found := t.slots.Read(table.Locator{PageID: loc.PageID, Index: loc.Index})
	if !found {
		return nil, false
	}

	out := make([]byte, loc.Size)
	copy(out, stored[:loc.Size])
	return out, true
}

// Truncate clears every stored payload.
func (t *Table) Truncate() {
	t.slots.Truncate()
}
