package vm

import (
	"testing"
)

// withQueue installs a fresh GCQueue for the duration of the test.
func withQueue(t *testing.T) *GCQueue {
	t.Helper()
	q := NewGCQueue()
	prev := SetCollector(q)
	t.Cleanup(func() { SetCollector(prev) })
	return q
}

func TestGCQueueDefersReclaim(t *testing.T) {
	q := withQueue(t)
	before := HeapStats()

	l := ints(1, 2)
	Release(l)
	if q.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", q.Pending())
	}
	if HeapStats().Lists != before.Lists+1 {
		t.Error("a queued buffer should stay counted until the sweep")
	}

	stats := q.SweepNow()
	if stats.Reclaimed != 1 {
		t.Errorf("reclaimed = %d, want 1", stats.Reclaimed)
	}
	if q.Pending() != 0 {
		t.Errorf("pending after sweep = %d, want 0", q.Pending())
	}
	if q.SweepCount() != 1 || q.LastStats() != stats {
		t.Error("sweep statistics not recorded")
	}
	checkHeap(t, before)
}

func TestGCQueuePossibleRoots(t *testing.T) {
	q := withQueue(t)

	l := ints(1)
	extra := Ref(l)
	Release(extra)
	if q.Roots() != 1 {
		t.Fatalf("roots = %d, want 1", q.Roots())
	}
	if c := GetColor(l.List()); c != Purple {
		t.Errorf("root color = %v, want purple", c)
	}

	stats := q.SweepNow()
	if stats.Roots != 1 {
		t.Errorf("swept roots = %d, want 1", stats.Roots)
	}
	if c := GetColor(l.List()); c != Black {
		t.Errorf("color after sweep = %v, want black", c)
	}

	// A root that dies before the sweep is reclaimed, not scanned.
	extra = Ref(l)
	Release(extra)
	Release(l)
	stats = q.SweepNow()
	if stats.Roots != 0 || stats.Reclaimed != 1 {
		t.Errorf("sweep = %+v, want 0 roots and 1 reclaimed", stats)
	}
}

func TestEmptyListIsNeverARoot(t *testing.T) {
	q := withQueue(t)
	e := NewList(0)
	Release(e)
	if q.Roots() != 0 || q.Pending() != 0 {
		t.Errorf("empty list reached the collector: roots %d, pending %d", q.Roots(), q.Pending())
	}
}

func TestReleaseFreesNested(t *testing.T) {
	before := HeapStats()
	inner := NewListOf(Str("x"), NewMap())
	outer := NewListOf(inner, Str("y"), NewAnon())
	Release(outer)
	checkHeap(t, before)
}

func TestReleaseUnderflowPanics(t *testing.T) {
	s := Str("gone")
	Release(s)
	defer func() {
		if recover() == nil {
			t.Error("releasing a dead string did not panic")
		}
	}()
	Release(s)
}

func TestReleaseScalarIsNoop(t *testing.T) {
	before := HeapStats()
	for _, v := range []Value{Int(1), Float(2), Obj(3), Err(E_TYPE)} {
		Release(v)
		if Refcount(v) != 0 {
			t.Errorf("Refcount(%v) = %d, want 0", v.Type(), Refcount(v))
		}
	}
	checkHeap(t, before)
}

func TestColorString(t *testing.T) {
	if Yellow.String() != "yellow" || Green.String() != "green" {
		t.Errorf("unexpected color names %q, %q", Yellow, Green)
	}
	if Color(42).String() != "unknown" {
		t.Errorf("Color(42) = %q, want unknown", Color(42))
	}
}
