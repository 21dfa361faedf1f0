package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of allocationResults
const (
	outcomeSuccess           = "success"
	outcomeSeatUnavailable   = "seat_unavailable"
	outcomeInvalidTransition = "invalid_transition"
	outcomeNotFound          = "not_found"
	outcomeValidation        = "validation_error"
	outcomeError             = "error"
)

var (
	allocationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_allocation_operations_total",
		Help: "Seat allocation operations by operation and outcome",
	}, []string{"operation", "outcome"})

	eventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_event_publish_errors_total",
		Help: "The total number of booking events that failed to publish",
	})

	scheduleCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_cache_lookups_total",
		Help: "Schedule-by-date cache lookups by result",
	}, []string{"result"})
)

// outcomeOf maps a service error onto its metric label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrSeatUnavailable):
		return outcomeSeatUnavailable
	case errors.Is(err, ErrInvalidTransition):
		return outcomeInvalidTransition
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrValidation):
		return outcomeValidation
	}
	return outcomeError
}

func recordAllocation(operation string, err error) {
	allocationResults.WithLabelValues(operation, outcomeOf(err)).Inc()
}
