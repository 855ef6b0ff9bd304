// Package table implements the generic paged, expiry-aware record store
// described by the engine: an append-only sequence of fixed-capacity
// pages, each stamped with a creation time, scanned in a single pass that
// skips whatever page has aged out. Both the deal index and the
// top-destinations index are table.Table instances parameterized over
// their own fixed-size record type; the opaque payload slab table
// (internal/payload) wraps one more instance parameterized over []byte.
//
// The shape is carried forward from the teacher's mmap'd, file-backed
// fixedblock.go/dblock.go — same record/segment/pre-allocation discipline,
// same single-writer mutex boundary — with the file and mmap machinery
// stripped out, since this engine is purely in-memory (see DESIGN.md).
package table

import (
	"sync"
	"sync/atomic"

	"github.com/foxdalas/deals-server/clock"
	"github.com/foxdalas/deals-server/internal/queue"
)

// Locator addresses a single record inside a Table: which page, which
// slot within the page, and (for variable-length payloads riding on top
// of a byte-record table) how many bytes of that slot are actually used.
type Locator struct {
	PageID uint32
	Index  uint32
	Size   uint32
}

// Options configures a Table's page geometry and expiry policy.
type Options struct {
	// RecordsPerPage is the fixed capacity of every page.
	RecordsPerPage uint32

	// MaxPages bounds how many pages may be live at once. Once reached,
	// appending to a full, newest page evicts the oldest page.
	MaxPages uint32

	// ExpirySeconds is how long a page stays live after its creation
	// time. A page with now-createdAt >= ExpirySeconds is skipped by
	// Scan and Read, and becomes eligible for eviction.
	ExpirySeconds uint32

	// ForbidLiveEviction, when set, makes Append fail with
	// ErrOutOfSpace instead of evicting a page that hasn't expired yet.
	ForbidLiveEviction bool
}

type page[R any] struct {
	createdAt uint32
	used      atomic.Uint32
	records   []R
}

func newPage[R any](capacity uint32, now uint32) *page[R] {
	return &page[R]{
		createdAt: now,
		records:   make([]R, capacity),
	}
}

func (p *page[R]) isLive(now, expirySeconds uint32) bool {
	return now-p.createdAt < expirySeconds
}

// Table is a generic paged, expiry-aware, single-writer/multi-reader
// record store.
type Table[R any] struct {
	opts Options

	mu       sync.Mutex // guards the page map and ring; readers hold it only to look up or snapshot pages, never while reading records
	pages    map[uint32]*page[R]
	ring     *queue.Ring[*page[R]]
	nextPage uint32
	current  uint32 // id of the page currently accepting writes
}

// New creates an empty Table with the given geometry.
func New[R any](opts Options) *Table[R] {
	return &Table[R]{
		opts:  opts,
		pages: make(map[uint32]*page[R]),
		ring:  queue.New[*page[R]](int(opts.MaxPages)),
	}
}

// ErrOutOfSpace is returned by Append when every page is live and
// eviction would drop data still within its expiry window.
//
// ErrInvalidSize is returned by variable-payload tables when a payload
// exceeds a single page slot's capacity.
var (
	ErrOutOfSpace  = tableError("out of space: no page can be evicted")
	ErrInvalidSize = tableError("payload exceeds page capacity")
)

type tableError string

func (e tableError) Error() string { return string(e) }

// Append adds a record to the current page, allocating a new page (and
// evicting the oldest one, if MaxPages is reached) when needed. The
// writer never overwrites a live record in place.
func (t *Table[R]) Append(record R) (Locator, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := clock.Now()

	p, pageID, err := t.writablePage(now)
	if err != nil {
		return Locator{}, err
	}

	idx := p.used.Load()
	p.records[idx] = record
	p.used.Store(idx + 1)

	return Locator{PageID: pageID, Index: idx}, nil
}

// writablePage returns the current page, allocating (and possibly
// evicting) as needed. Caller holds t.mu.
func (t *Table[R]) writablePage(now uint32) (*page[R], uint32, error) {
	if p, ok := t.pages[t.current]; ok && p.used.Load() < t.opts.RecordsPerPage {
		return p, t.current, nil
	}

	if t.opts.ForbidLiveEviction && t.ring.Length() >= int(t.opts.MaxPages) {
		if oldestID, ok := t.ring.Oldest(); ok {
			if oldest, ok := t.pages[oldestID]; ok && oldest.isLive(now, t.opts.ExpirySeconds) {
				return nil, 0, ErrOutOfSpace
			}
		}
	}

	pageID := t.nextPage
	t.nextPage++

	p := newPage[R](t.opts.RecordsPerPage, now)

	evictedID, _, wasEvicted, err := t.ring.Add(pageID, p)
	if err != nil {
		return nil, 0, err
	}

	if wasEvicted {
		delete(t.pages, evictedID)
	}

	t.pages[pageID] = p
	t.current = pageID

	return p, pageID, nil
}

// Read returns the record at loc, or ok=false if its page has expired or
// never existed.
func (t *Table[R]) Read(loc Locator) (record R, ok bool) {
	now := clock.Now()

	p, exists := t.pageAt(loc.PageID)
	if !exists || !p.isLive(now, t.opts.ExpirySeconds) {
		return record, false
	}

	if loc.Index >= p.used.Load() {
		return record, false
	}

	return p.records[loc.Index], true
}

func (t *Table[R]) pageAt(id uint32) (*page[R], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pages[id]
	return p, ok
}

// Scan calls visitor once per live page with that page's record slice
// (truncated to the records actually written) and the page id. Expired
// pages are skipped. now is computed once at entry, per spec.
func (t *Table[R]) Scan(visitor func(pageID uint32, records []R)) {
	now := clock.Now()

	for _, p := range t.snapshotPages() {
		if !p.page.isLive(now, t.opts.ExpirySeconds) {
			continue
		}

		used := p.page.used.Load()
		visitor(p.id, p.page.records[:used])
	}
}

type pageRef[R any] struct {
	id   uint32
	page *page[R]
}

func (t *Table[R]) snapshotPages() []pageRef[R] {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]pageRef[R], 0, len(t.pages))
	for id, p := range t.pages {
		out = append(out, pageRef[R]{id: id, page: p})
	}

	return out
}

// Truncate drops every page, returning the table to empty.
func (t *Table[R]) Truncate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pages = make(map[uint32]*page[R])
	t.ring.Flush()
	t.nextPage = 0
	t.current = 0
}

// LivePageCount reports how many pages currently hold unexpired data, for
// diagnostics and tests.
func (t *Table[R]) LivePageCount() int {
	now := clock.Now()
	count := 0

	for _, p := range t.snapshotPages() {
		if p.page.isLive(now, t.opts.ExpirySeconds) {
			count++
		}
	}

	return count
}
