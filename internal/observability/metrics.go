package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce                sync.Once
	assignmentTransitionsTotal  *prometheus.CounterVec
	notificationsPublishedTotal *prometheus.CounterVec
	scoringDurationSeconds      *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the assignment
// lifecycle.
func RegisterMetrics() {
	registerOnce.Do(func() {
		assignmentTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignment_transitions_total",
			Help: "Total number of assignment status transitions applied.",
		}, []string{"from", "to"})

		notificationsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of lifecycle notifications dispatched.",
		}, []string{"type"})

		scoringDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "Latency distribution for grading operations.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"operation"})

		prometheus.MustRegister(assignmentTransitionsTotal, notificationsPublishedTotal, scoringDurationSeconds)
	})
}

// AssignmentTransitions exposes the counter for status transitions.
func AssignmentTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return assignmentTransitionsTotal
}

// NotificationsPublished exposes the counter for dispatched notifications.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublishedTotal
}

// ScoringDuration exposes the latency histogram for grading operations.
func ScoringDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return scoringDurationSeconds
}
