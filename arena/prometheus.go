package arena

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSource is anything that can report region statistics.
// *Region and *SafeRegion both satisfy it; only *SafeRegion may be scraped
// while other goroutines allocate from it.
type MetricsSource interface {
	Metrics() RegionMetrics
}

// Collector exports region statistics to Prometheus, one label value per
// named region.
type Collector struct {
	sources map[string]MetricsSource
	names   []string

	capacity    *prometheus.Desc
	used        *prometheus.Desc
	peak        *prometheus.Desc
	live        *prometheus.Desc
	utilization *prometheus.Desc
	allocs      *prometheus.Desc
	frees       *prometheus.Desc
	failures    *prometheus.Desc
}

// NewCollector creates a collector for the given regions.
func NewCollector(namespace string, sources map[string]MetricsSource) *Collector {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", name),
			help,
			[]string{"region"},
			nil,
		)
	}
	return &Collector{
		sources:     sources,
		names:       names,
		capacity:    desc("capacity_bytes", "Region capacity in bytes"),
		used:        desc("used_bytes", "Bump cursor position in bytes"),
		peak:        desc("peak_bytes", "Highest bump cursor position in bytes"),
		live:        desc("live_allocations", "Live allocations (debug regions only)"),
		utilization: desc("utilization", "Ratio of used bytes to capacity (0-1)"),
		allocs:      desc("allocations_total", "Total successful allocations"),
		frees:       desc("deallocations_total", "Total deallocations"),
		failures:    desc("failures_total", "Total out-of-memory failures"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.used
	ch <- c.peak
	ch <- c.live
	ch <- c.utilization
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failures
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.names {
		m := c.sources[name].Metrics()
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(m.Used), name)
		ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(m.Peak), name)
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(m.LiveAllocations), name)
		ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization, name)
		ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocations), name)
		ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Deallocations), name)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(m.Failures), name)
	}
}
