package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

var (
	bookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Total booking operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	bookingOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_operation_duration_seconds",
			Help:    "Duration of booking operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// ObserveBookingOperation records one find, create or update call
func ObserveBookingOperation(operation, outcome string, elapsed time.Duration) {
	bookingOperations.WithLabelValues(operation, outcome).Inc()
	bookingOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
