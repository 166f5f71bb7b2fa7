package pattern

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the counters of a Cache as Prometheus metrics.
type Collector struct {
	cache *Cache

	hits     *prometheus.Desc
	misses   *prometheus.Desc
	compiles *prometheus.Desc
	failures *prometheus.Desc
	size     *prometheus.Desc
}

// NewCollector returns a collector for cache with metric names under
// namespace, e.g. "moo" gives moo_pattern_cache_hits_total.
func NewCollector(cache *Cache, namespace string) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "pattern_cache", n)
	}
	return &Collector{
		cache:    cache,
		hits:     prometheus.NewDesc(name("hits_total"), "Pattern lookups served from the cache.", nil, nil),
		misses:   prometheus.NewDesc(name("misses_total"), "Pattern lookups that evicted a slot.", nil, nil),
		compiles: prometheus.NewDesc(name("compiles_total"), "Patterns compiled by the cache.", nil, nil),
		failures: prometheus.NewDesc(name("compile_failures_total"), "Pattern compiles that failed.", nil, nil),
		size:     prometheus.NewDesc(name("slots"), "Number of cache slots.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.compiles
	ch <- c.failures
	ch <- c.size
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.compiles, prometheus.CounterValue, float64(s.Compiles))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
}
