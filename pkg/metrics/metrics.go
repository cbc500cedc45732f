// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-wrss.
//
// go-wrss is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for go-wrss sessions.
// It exposes protocol operation counters, latency histograms, error
// counters, reconstruction search statistics and process resource gauges.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all go-wrss metrics
	Namespace = "wrss"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpKeyGen         = "keygen"
	OpSetup          = "setup"
	OpCalibrate      = "calibrate"
	OpDeal           = "deal"
	OpEncrypt        = "encrypt"
	OpSeal           = "seal"
	OpPartialDecrypt = "partial_decrypt"
	OpCombine        = "combine"
	OpDecrypt        = "decrypt"
	OpOpen           = "open"
)

var (
	// OperationsTotal tracks protocol operations by type and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of protocol operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks protocol operation latency in seconds.
	// Setup and key generation sample primes and dominate the upper buckets.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of protocol operations in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks errors by operation and error type, e.g.
	// "reconstruction_failed" or "infeasible_parameters".
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// SearchOffset tracks the offset j at which a combine matched.
	SearchOffset = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_offset",
			Help:      "Search offset at which the combined session key matched its commitment",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		},
	)

	// QuorumWeight tracks the combined weight of quorums presented for
	// decryption.
	QuorumWeight = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "quorum_weight",
			Help:      "Combined weight of quorums presented for decryption",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		},
	)

	// ActiveSessions tracks sessions that have been set up and not closed.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions currently holding dealt shares",
		},
	)

	// Goroutines tracks the current number of goroutines.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// MemorySysBytes tracks the total bytes of memory obtained from the OS.
	MemorySysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_sys_bytes",
			Help:      "Total bytes of memory obtained from the OS",
		},
	)

	// GCPauseTotalSeconds tracks the cumulative time spent in GC stop-the-world pauses.
	GCPauseTotalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gc_pause_total_seconds",
			Help:      "Cumulative time spent in GC stop-the-world pauses",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a protocol operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	_, err := threshold.CombineAndSearch(group, moduli, quorum, partials, c1, hk)
//	status := metrics.StatusSuccess
//	if err != nil {
//	    status = metrics.StatusError
//	}
//	metrics.RecordOperation(metrics.OpCombine, status, time.Since(start).Seconds())
func RecordOperation(operation, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records an error event for operation.
func RecordError(operation, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordSearchOffset records the offset at which a combine matched.
func RecordSearchOffset(offset int) {
	if !enabled.Load() {
		return
	}
	SearchOffset.Observe(float64(offset))
}

// RecordQuorumWeight records the weight of a quorum presented for decryption.
func RecordQuorumWeight(weight int) {
	if !enabled.Load() {
		return
	}
	QuorumWeight.Observe(float64(weight))
}

// SessionOpened increments the active session gauge.
func SessionOpened() {
	if !enabled.Load() {
		return
	}
	ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func SessionClosed() {
	if !enabled.Load() {
		return
	}
	ActiveSessions.Dec()
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
