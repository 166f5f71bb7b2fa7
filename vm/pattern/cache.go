package pattern

import (
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("moocore.pattern")

// DefaultCacheSize is the slot count of a cache built with a size of zero.
// Lookup is a linear scan, and the workload is usually one or two hot
// patterns, so a handful of slots is enough.
const DefaultCacheSize = 5

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Compiles uint64
	Failures uint64 // compiles that returned an error
	Size     int
}

// HitRate returns the hit rate as a percentage (0-100).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// cacheEntry is one slot. A slot is free when text is "" and pattern is nil;
// the empty pattern compiles to a non-nil handle, so it still caches.
type cacheEntry struct {
	text        string
	caseMatters bool
	pattern     *Pattern
	next        *cacheEntry
}

// Cache memoizes compiled patterns by (text, caseMatters) in a fixed set of
// slots kept in most-recently-used order. Lookup is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	compiler Compiler
	entries  []cacheEntry
	head     *cacheEntry

	hits, misses, compiles, failures uint64
}

// NewCache allocates a cache with size slots, or DefaultCacheSize when size
// is not positive. A nil compiler uses RegexpCompiler with no time bound.
func NewCache(size int, compiler Compiler) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if compiler == nil {
		compiler = RegexpCompiler{}
	}
	c := &Cache{compiler: compiler, entries: make([]cacheEntry, size)}
	c.link()
	return c
}

func (c *Cache) link() {
	for i := range c.entries {
		if i+1 < len(c.entries) {
			c.entries[i].next = &c.entries[i+1]
		} else {
			c.entries[i].next = nil
		}
	}
	c.head = &c.entries[0]
}

// Lookup returns the compiled form of text, compiling it into the least
// recently used slot on a miss. It returns nil when text does not compile.
func (c *Cache) Lookup(text string, caseMatters bool) *Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()

	// link points at the pointer that leads to entry, so unlinking is a
	// single store whether entry is the head or not.
	link := &c.head
	entry := c.head
	for {
		if entry.pattern != nil && entry.text == text && entry.caseMatters == caseMatters {
			c.hits++
			break
		}
		if entry.next == nil {
			c.misses++
			c.refill(entry, text, caseMatters)
			break
		}
		link = &entry.next
		entry = entry.next
	}

	if entry != c.head {
		*link = entry.next
		entry.next = c.head
		c.head = entry
	}
	return entry.pattern
}

// refill evicts entry and compiles text into it. A failed compile leaves
// the slot free.
func (c *Cache) refill(entry *cacheEntry, text string, caseMatters bool) {
	if entry.pattern != nil {
		log.Debugf("evicting pattern %q", entry.text)
		c.compiler.Release(entry.pattern)
	}
	c.compiles++
	p, err := c.compiler.Compile(text, caseMatters)
	if err != nil {
		c.failures++
		log.Debugf("pattern %q does not compile: %v", text, err)
		entry.text, entry.pattern = "", nil
		return
	}
	entry.text, entry.caseMatters, entry.pattern = text, caseMatters, p
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Compiles: c.compiles,
		Failures: c.failures,
		Size:     len(c.entries),
	}
}

// Reset releases every cached pattern and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if p := c.entries[i].pattern; p != nil {
			c.compiler.Release(p)
		}
		c.entries[i] = cacheEntry{}
	}
	c.link()
	c.hits, c.misses, c.compiles, c.failures = 0, 0, 0, 0
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide cache, built with DefaultCacheSize slots
// on first use.
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache(DefaultCacheSize, RegexpCompiler{})
	})
	return defaultCache
}
