package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reservation outcome labels.
const (
	OutcomePlaced       = "placed"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeConflict     = "commit_conflict"
	OutcomeRejected     = "rejected"
	OutcomeError        = "error"
)

// ReservationMetrics records duration and outcomes of reservation attempts.
type ReservationMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewReservationMetrics registers the reservation metrics on the provided registerer.
func NewReservationMetrics(reg prometheus.Registerer) *ReservationMetrics {
	if reg == nil {
		return &ReservationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservation_duration_seconds",
		Help:    "Duration of reservation attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_outcomes_total",
		Help: "Reservation attempts by outcome.",
	}, []string{"strategy", "outcome"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_commit_retries_total",
		Help: "Commit retries after a guarded update lost the race.",
	}, []string{"strategy"})
	reg.MustRegister(duration, outcomes, retries)
	return &ReservationMetrics{
		duration: duration,
		outcomes: outcomes,
		retries:  retries,
	}
}

// ObserveDuration records the duration of a reservation attempt.
func (r *ReservationMetrics) ObserveDuration(strategy string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(strategy)).Observe(duration.Seconds())
}

// IncOutcome increments the outcome counter for the given strategy.
func (r *ReservationMetrics) IncOutcome(strategy, outcome string) {
	if r == nil || r.outcomes == nil {
		return
	}
	r.outcomes.WithLabelValues(normalizeLabel(strategy), normalizeLabel(outcome)).Inc()
}

// IncCommitRetry increments the commit retry counter for the given strategy.
func (r *ReservationMetrics) IncCommitRetry(strategy string) {
	if r == nil || r.retries == nil {
		return
	}
	r.retries.WithLabelValues(normalizeLabel(strategy)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
