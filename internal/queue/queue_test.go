package queue

import "testing"

func TestAdd(t *testing.T) {
	q := New[int](3)

	if _, _, evicted, err := q.Add(0, 10); err != nil || evicted {
		t.Fatal("unexpected eviction or error on first add")
	}

	v, err := q.Get(0)
	if err != nil || v != 10 {
		t.Fatal("invalid value")
	}
}

func TestAddDuplicate(t *testing.T) {
	q := New[int](3)

	if _, _, _, err := q.Add(0, 10); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := q.Add(0, 10); err != ErrKeyExists {
		t.Fatal("expected ErrKeyExists for duplicate key")
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	q := New[int](2)

	mustAdd(t, q, 1, 100)
	mustAdd(t, q, 2, 200)

	evKey, evVal, evicted, err := q.Add(3, 300)
	if err != nil {
		t.Fatal(err)
	}
	if !evicted || evKey != 1 || evVal != 100 {
		t.Fatalf("expected to evict key 1/100, got %d/%d evicted=%v", evKey, evVal, evicted)
	}

	if _, err := q.Get(1); err != ErrKeyMissing {
		t.Fatal("evicted key should no longer be present")
	}

	if q.Length() != 2 {
		t.Fatalf("expected length 2, got %d", q.Length())
	}
}

func TestOldest(t *testing.T) {
	q := New[int](3)
	if _, ok := q.Oldest(); ok {
		t.Fatal("empty ring should have no oldest entry")
	}

	mustAdd(t, q, 5, 1)
	mustAdd(t, q, 6, 2)

	key, ok := q.Oldest()
	if !ok || key != 5 {
		t.Fatalf("expected oldest key 5, got %d ok=%v", key, ok)
	}
}

func TestFlush(t *testing.T) {
	q := New[int](3)
	mustAdd(t, q, 1, 10)
	mustAdd(t, q, 2, 20)

	flushed := q.Flush()
	if len(flushed) != 2 || flushed[1] != 10 || flushed[2] != 20 {
		t.Fatalf("unexpected flush result: %+v", flushed)
	}

	if q.Length() != 0 {
		t.Fatal("ring should be empty after flush")
	}
}

func mustAdd(t *testing.T, q *Ring[int], key uint32, val int) {
	t.Helper()
	if _, _, _, err := q.Add(key, val); err != nil {
		t.Fatalf("add(%d, %d): %v", key, val, err)
	}
}
