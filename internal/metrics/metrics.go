package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedbackCreated counts created feedback records by relationship
	// category.
	FeedbackCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerpulse",
		Name:      "feedback_created_total",
		Help:      "Feedback records created, labeled by feedback type.",
	}, []string{"feedback_type"})

	// StatusTransitions counts successful status-machine transitions by
	// target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerpulse",
		Name:      "feedback_status_transitions_total",
		Help:      "Successful feedback status transitions, labeled by target status.",
	}, []string{"to_status"})

	// WeightOverrides counts administrative weight overrides, which bypass
	// the pricing model and deserve operator visibility.
	WeightOverrides = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peerpulse",
		Name:      "feedback_weight_overrides_total",
		Help:      "Administrative weight overrides applied to feedback records.",
	})
)
