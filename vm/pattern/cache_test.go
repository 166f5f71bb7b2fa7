package pattern

import (
	"sync"
	"testing"
)

// countingCompiler wraps RegexpCompiler and counts calls.
type countingCompiler struct {
	RegexpCompiler
	compiles map[string]int
	released int
}

func newCountingCompiler() *countingCompiler {
	return &countingCompiler{compiles: make(map[string]int)}
}

func (c *countingCompiler) Compile(text string, caseMatters bool) (*Pattern, error) {
	c.compiles[text]++
	return c.RegexpCompiler.Compile(text, caseMatters)
}

func (c *countingCompiler) Release(p *Pattern) {
	c.released++
}

func TestCacheHitDoesNotRecompile(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(3, cc)

	first := cache.Lookup("a+", false)
	if first == nil {
		t.Fatal("Lookup returned nil for a valid pattern")
	}
	for i := 0; i < 4; i++ {
		if p := cache.Lookup("a+", false); p != first {
			t.Fatal("repeated lookup returned a different pattern")
		}
	}
	if cc.compiles["a+"] != 1 {
		t.Errorf("compiled %d times, want 1", cc.compiles["a+"])
	}
	s := cache.Stats()
	if s.Hits != 4 || s.Misses != 1 || s.Compiles != 1 {
		t.Errorf("stats = %+v, want 4 hits, 1 miss, 1 compile", s)
	}
	if s.HitRate() != 80 {
		t.Errorf("hit rate = %v, want 80", s.HitRate())
	}
}

func TestCacheKeyIncludesCase(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(3, cc)

	a := cache.Lookup("abc", false)
	b := cache.Lookup("abc", true)
	if a == b {
		t.Error("case-sensitive and insensitive lookups shared a pattern")
	}
	if cc.compiles["abc"] != 2 {
		t.Errorf("compiled %d times, want 2", cc.compiles["abc"])
	}
	if a.CaseMatters() || !b.CaseMatters() {
		t.Error("patterns carry the wrong case flag")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(3, cc)

	cache.Lookup("p1", false)
	cache.Lookup("p2", false)
	cache.Lookup("p3", false)
	cache.Lookup("p1", false) // p2 is now least recently used
	cache.Lookup("p4", false) // evicts p2

	if cc.released != 1 {
		t.Errorf("released %d patterns, want 1", cc.released)
	}
	cache.Lookup("p1", false)
	cache.Lookup("p3", false)
	for _, text := range []string{"p1", "p3", "p4"} {
		if cc.compiles[text] != 1 {
			t.Errorf("%s compiled %d times, want 1", text, cc.compiles[text])
		}
	}

	cache.Lookup("p2", false) // evicted entry recompiles, evicting p4
	if cc.compiles["p2"] != 2 {
		t.Errorf("p2 compiled %d times, want 2", cc.compiles["p2"])
	}
	if cc.released != 2 {
		t.Errorf("released %d patterns, want 2", cc.released)
	}
	cache.Lookup("p4", false)
	if cc.compiles["p4"] != 2 {
		t.Errorf("p4 compiled %d times, want 2", cc.compiles["p4"])
	}
}

func TestCacheCompileFailure(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(2, cc)

	good := cache.Lookup("ok", false)
	if p := cache.Lookup("%(", false); p != nil {
		t.Fatal("Lookup of a bad pattern returned a pattern")
	}
	if p := cache.Lookup("ok", false); p != good {
		t.Fatal("valid entry was lost to a failed compile")
	}
	// The failed slot is free again, so the retry compiles into it.
	if p := cache.Lookup("%(", false); p != nil {
		t.Fatal("second Lookup of a bad pattern returned a pattern")
	}
	if cc.compiles["%("] != 2 {
		t.Errorf("bad pattern compiled %d times, want 2", cc.compiles["%("])
	}
	if p := cache.Lookup("ok", false); p != good {
		t.Error("valid entry was evicted by a retried bad pattern")
	}
	if s := cache.Stats(); s.Failures != 2 {
		t.Errorf("failures = %d, want 2", s.Failures)
	}
}

func TestCacheEmptyPattern(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(2, cc)

	if cache.Lookup("", false) == nil {
		t.Fatal("empty pattern did not compile")
	}
	cache.Lookup("", false)
	if cc.compiles[""] != 1 {
		t.Errorf("empty pattern compiled %d times, want 1", cc.compiles[""])
	}
}

func TestCacheReset(t *testing.T) {
	cc := newCountingCompiler()
	cache := NewCache(2, cc)
	cache.Lookup("x", false)
	cache.Lookup("y", false)

	cache.Reset()
	if cc.released != 2 {
		t.Errorf("Reset released %d patterns, want 2", cc.released)
	}
	if s := cache.Stats(); s.Hits != 0 || s.Misses != 0 || s.Compiles != 0 {
		t.Errorf("stats after Reset = %+v", s)
	}
	cache.Lookup("x", false)
	if cc.compiles["x"] != 2 {
		t.Errorf("x compiled %d times after Reset, want 2", cc.compiles["x"])
	}
}

func TestCacheDefaults(t *testing.T) {
	c := NewCache(0, nil)
	if s := c.Stats(); s.Size != DefaultCacheSize {
		t.Errorf("size = %d, want %d", s.Size, DefaultCacheSize)
	}
	if c.Lookup("a%|b", false) == nil {
		t.Error("default compiler failed")
	}
	if Default() != Default() {
		t.Error("Default returned different caches")
	}
}

func TestCacheConcurrentLookup(t *testing.T) {
	cache := NewCache(2, nil)
	texts := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				text := texts[(i+j)%len(texts)]
				if p := cache.Lookup(text, false); p == nil || p.Text() != text {
					t.Errorf("Lookup(%q) returned the wrong pattern", text)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if s := cache.Stats(); s.Hits+s.Misses != 800 {
		t.Errorf("lookups counted = %d, want 800", s.Hits+s.Misses)
	}
}
