package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SwapCacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pool_snapshot_swap_cache_requests_total", Help: "Swap event cache lookups by result"},
		[]string{"result"},
	)
	SwapChunkFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "pool_snapshot_swap_chunk_failures_total", Help: "Skipped swap log chunks"},
	)
	SwapFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pool_snapshot_swap_fallbacks_total", Help: "Swap log fallback queries by outcome"},
		[]string{"outcome"},
	)
	SnapshotRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pool_snapshot_requests_total", Help: "Pool snapshot requests by outcome"},
		[]string{"outcome"},
	)
	SnapshotDefaultedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pool_snapshot_defaulted_steps_total", Help: "Snapshot steps replaced by defaults"},
		[]string{"step"},
	)
	SnapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "pool_snapshot_duration_seconds", Help: "Snapshot assembly duration", Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		SwapCacheRequestsTotal,
		SwapChunkFailuresTotal,
		SwapFallbacksTotal,
		SnapshotRequestsTotal,
		SnapshotDefaultedTotal,
		SnapshotDuration,
	)
}

func IncCacheHit()                    { SwapCacheRequestsTotal.WithLabelValues("hit").Inc() }
func IncCacheMiss()                   { SwapCacheRequestsTotal.WithLabelValues("miss").Inc() }
func IncChunkFailure()                { SwapChunkFailuresTotal.Inc() }
func IncFallback(outcome string)      { SwapFallbacksTotal.WithLabelValues(outcome).Inc() }
func IncSnapshot(outcome string)      { SnapshotRequestsTotal.WithLabelValues(outcome).Inc() }
func IncDefaulted(step string)        { SnapshotDefaultedTotal.WithLabelValues(step).Inc() }
func ObserveSnapshot(seconds float64) { SnapshotDuration.Observe(seconds) }
