package vm

import (
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("moocore.vm")

// ---------------------------------------------------------------------------
// Collector hooks: color bookkeeping for an external cycle collector
// ---------------------------------------------------------------------------

// Color is the collector's mark on a list buffer. It is independent of the
// reference count.
type Color uint8

const (
	Black  Color = iota // in use or free
	Gray                // possible member of a cycle
	White               // member of a garbage cycle
	Purple              // possible root of a cycle
	Green               // acyclic; never collected
	Yellow              // newly created or structurally changed, needs rescan
)

var colorNames = [...]string{"black", "gray", "white", "purple", "green", "yellow"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// GetColor returns the collector color of l.
func GetColor(l *List) Color {
	return l.color
}

// SetColor sets the collector color of l. The shared empty list stays Green.
func SetColor(l *List, c Color) {
	if l == emptyList {
		if c != Green {
			panic("SetColor: cannot recolor the shared empty list")
		}
		return
	}
	l.color = c
}

// Collector receives list buffers from the reference counting layer.
// Reclaim is called with a buffer whose count reached zero; its elements have
// already been released. PossibleRoot is called with a buffer that survived a
// decrement and so may anchor an unreachable cycle.
type Collector interface {
	Reclaim(l *List)
	PossibleRoot(l *List)
}

var collector Collector

// SetCollector installs c and returns the previous collector. With no
// collector installed, dead buffers are dropped immediately.
func SetCollector(c Collector) Collector {
	prev := collector
	collector = c
	return prev
}

func possibleRoot(l *List) {
	if collector == nil || l.color == Green {
		return
	}
	collector.PossibleRoot(l)
}

func destroyList(l *List) {
	if l.color == Green {
		panic("destroyList: releasing an unreclaimable list")
	}
	releaseAll(l.elems)
	l.elems = nil
	l.memo = 0
	if collector != nil {
		collector.Reclaim(l)
		return
	}
	freeList(l)
}

func freeList(l *List) {
	l.color = Black
	heap.Lists--
}

// ---------------------------------------------------------------------------
// GCQueue: deferred reclamation with sweep statistics
// ---------------------------------------------------------------------------

// GCStats holds statistics from a single sweep.
type GCStats struct {
	Reclaimed     int
	Roots         int
	SweepDuration time.Duration
	Timestamp     time.Time
}

// GCQueue is a Collector that buffers dead lists and possible roots until
// the next sweep. It does no tracing itself: a sweep frees the dead buffers
// and marks the surviving roots Black for the tracer that consumes them.
type GCQueue struct {
	pending []*List
	roots   map[*List]struct{}

	sweepCount uint64
	lastStats  *GCStats
}

// NewGCQueue creates an empty queue.
func NewGCQueue() *GCQueue {
	return &GCQueue{roots: make(map[*List]struct{})}
}

// Reclaim queues a dead buffer for the next sweep.
func (q *GCQueue) Reclaim(l *List) {
	delete(q.roots, l)
	q.pending = append(q.pending, l)
}

// PossibleRoot records l as a candidate cycle root and colors it Purple.
func (q *GCQueue) PossibleRoot(l *List) {
	if l.color == Purple {
		return
	}
	l.color = Purple
	q.roots[l] = struct{}{}
}

// Pending returns the number of dead buffers awaiting a sweep.
func (q *GCQueue) Pending() int { return len(q.pending) }

// Roots returns the number of buffered possible roots.
func (q *GCQueue) Roots() int { return len(q.roots) }

// SweepCount returns the total number of sweeps performed.
func (q *GCQueue) SweepCount() uint64 { return q.sweepCount }

// LastStats returns statistics from the most recent sweep, or nil if no
// sweep has been performed yet.
func (q *GCQueue) LastStats() *GCStats { return q.lastStats }

// SweepNow frees every queued buffer and clears the root buffer.
func (q *GCQueue) SweepNow() *GCStats {
	start := time.Now()
	stats := &GCStats{Timestamp: start}

	for _, l := range q.pending {
		freeList(l)
	}
	stats.Reclaimed = len(q.pending)
	q.pending = q.pending[:0]

	for l := range q.roots {
		if l.color == Purple {
			l.color = Black
		}
		delete(q.roots, l)
		stats.Roots++
	}

	stats.SweepDuration = time.Since(start)
	q.sweepCount++
	q.lastStats = stats

	log.Debugf("gc sweep: reclaimed %d buffers, scanned %d roots in %s",
		stats.Reclaimed, stats.Roots, stats.SweepDuration)
	return stats
}
