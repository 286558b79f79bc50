// Package metrics exposes Prometheus metrics for the matching core's
// CLI harness. The core itself (internal/art, internal/book) never
// touches this package. cmd/clobmatch's serve subcommand registers the
// collector and serves it at /metrics; no code in this module records
// values into these metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds every metric the harness records.
type Collector struct {
	CommandsTotal   *prometheus.CounterVec
	OrdersResting   *prometheus.GaugeVec
	OrdersDropped   *prometheus.CounterVec
	MatchedVolume   *prometheus.CounterVec
	BookDepth       *prometheus.GaugeVec
	BestPrice       *prometheus.GaugeVec
	CommandLatency  *prometheus.HistogramVec
	PoolHits        *prometheus.CounterVec
	PoolMisses      *prometheus.CounterVec
	PooledNodes     *prometheus.GaugeVec
}

// GetCollector returns the process-wide singleton collector,
// registering it with the default Prometheus registry on first use.
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

func newCollector() *Collector {
	c := &Collector{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clobmatch",
				Subsystem: "commands",
				Name:      "total",
				Help:      "Total number of newOrder commands processed",
			},
			[]string{"symbol", "side"},
		),
		OrdersResting: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "clobmatch",
				Subsystem: "orders",
				Name:      "resting",
				Help:      "Number of resting orders by side",
			},
			[]string{"symbol", "side"},
		),
		OrdersDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clobmatch",
				Subsystem: "orders",
				Name:      "dropped_total",
				Help:      "Total number of commands dropped (duplicate id, validation failure)",
			},
			[]string{"symbol", "reason"},
		),
		MatchedVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clobmatch",
				Subsystem: "matching",
				Name:      "volume_total",
				Help:      "Total matched size",
			},
			[]string{"symbol"},
		),
		BookDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "clobmatch",
				Subsystem: "book",
				Name:      "depth",
				Help:      "Number of resting price buckets by side",
			},
			[]string{"symbol", "side"},
		),
		BestPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "clobmatch",
				Subsystem: "book",
				Name:      "best_price",
				Help:      "Cached best price by side",
			},
			[]string{"symbol", "side"},
		),
		CommandLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "clobmatch",
				Subsystem: "commands",
				Name:      "latency_seconds",
				Help:      "NewOrder processing latency",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
			},
			[]string{"symbol"},
		),
		PoolHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clobmatch",
				Subsystem: "pool",
				Name:      "hits_total",
				Help:      "ART node pool hits",
			},
			[]string{"symbol", "tree"},
		),
		PoolMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clobmatch",
				Subsystem: "pool",
				Name:      "misses_total",
				Help:      "ART node pool misses (fresh allocation)",
			},
			[]string{"symbol", "tree"},
		),
		PooledNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "clobmatch",
				Subsystem: "pool",
				Name:      "nodes",
				Help:      "Nodes currently held by the pool, by variant",
			},
			[]string{"symbol", "tree", "kind"},
		),
	}

	prometheus.MustRegister(c.CommandsTotal)
	prometheus.MustRegister(c.OrdersResting)
	prometheus.MustRegister(c.OrdersDropped)
	prometheus.MustRegister(c.MatchedVolume)
	prometheus.MustRegister(c.BookDepth)
	prometheus.MustRegister(c.BestPrice)
	prometheus.MustRegister(c.CommandLatency)
	prometheus.MustRegister(c.PoolHits)
	prometheus.MustRegister(c.PoolMisses)
	prometheus.MustRegister(c.PooledNodes)

	return c
}

// Handler serves the default Prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
