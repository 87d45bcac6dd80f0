// Package metrics provides Prometheus metrics for actor calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes
const (
	OutcomeStarted    = "started"    // returned without waiting
	OutcomeSucceeded  = "succeeded"  // run finished successfully
	OutcomeFailed     = "failed"     // run finished with a failure status
	OutcomeUnfinished = "unfinished" // wait budget ran out
	OutcomeError      = "error"      // transport or validation error
)

var (
	// CallsTotal counts actor calls by outcome.
	CallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actor_sdk",
			Subsystem: "call",
			Name:      "total",
			Help:      "Total number of actor calls by outcome",
		},
		[]string{"outcome"},
	)

	// PollsTotal counts run status polls; result is "run" or "empty".
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actor_sdk",
			Subsystem: "call",
			Name:      "polls_total",
			Help:      "Total number of run status polls by result",
		},
		[]string{"result"},
	)

	// CallDuration tracks how long calls take end to end.
	CallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "actor_sdk",
			Subsystem: "call",
			Name:      "duration_seconds",
			Help:      "Actor call duration in seconds",
			Buckets:   []float64{0.1, 1, 5, 10, 30, 60, 300, 900, 3600},
		},
		[]string{"outcome"},
	)
)

// RecordCall records a finished call
func RecordCall(outcome string, seconds float64) {
	CallsTotal.WithLabelValues(outcome).Inc()
	CallDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordPoll records a single status poll
func RecordPoll(empty bool) {
	result := "run"
	if empty {
		result = "empty"
	}
	PollsTotal.WithLabelValues(result).Inc()
}
