// Package metrics provides Prometheus metrics for chronofmv
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for chronofmv
type Metrics struct {
	// Append metrics
	AppendsTotal        prometheus.Counter
	AppendsRejectedTotal prometheus.Counter

	// Growth metrics
	GrowthsTotal    prometheus.Counter
	CapacityElements prometheus.Gauge

	// Query metrics
	LocateQueriesTotal  prometheus.Counter
	LocateStepsTotal    prometheus.Counter
	ReduceQueriesTotal  prometheus.Counter
	ReduceScannedTotal  prometheus.Counter
	ReduceEmittedTotal  prometheus.Counter

	// Sync / table-level operation metrics
	SyncsTotal          prometheus.Counter
	TableOperationDuration *prometheus.HistogramVec

	// Process metrics
	ProcessUptimeSeconds prometheus.Gauge
	ProcessStartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		ProcessStartTime: time.Now(),
	}

	m.AppendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_appends_total",
			Help: "Total number of accepted append operations",
		},
	)

	m.AppendsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_appends_rejected_total",
			Help: "Total number of appends dropped for a non-monotonic timestamp",
		},
	)

	m.GrowthsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_growths_total",
			Help: "Total number of capacity-doubling growth events",
		},
	)

	m.CapacityElements = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronofmv_capacity_elements",
			Help: "Current preallocated element capacity of the most recently grown vector",
		},
	)

	m.LocateQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_locate_queries_total",
			Help: "Total number of Locate calls",
		},
	)

	m.LocateStepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_locate_steps_total",
			Help: "Total number of binary-search comparisons across all Locate calls",
		},
	)

	m.ReduceQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_reduce_queries_total",
			Help: "Total number of Reduce calls",
		},
	)

	m.ReduceScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_reduce_scanned_total",
			Help: "Total number of entries scanned across all Reduce calls",
		},
	)

	m.ReduceEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_reduce_emitted_total",
			Help: "Total number of entries emitted across all Reduce calls",
		},
	)

	m.SyncsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chronofmv_syncs_total",
			Help: "Total number of msync calls issued",
		},
	)

	m.TableOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronofmv_table_operation_duration_seconds",
			Help:    "Duration of table operations in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"operation"},
	)

	m.ProcessUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronofmv_process_uptime_seconds",
			Help: "Process uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically updates the process uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ProcessUptimeSeconds.Set(time.Since(m.ProcessStartTime).Seconds())
	}
}

// RecordTableOperation records the duration of a table-level operation.
func (m *Metrics) RecordTableOperation(operation string, duration time.Duration) {
	m.TableOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
