package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters shared by the booking flow and the outbox worker
type Metrics struct {
	CheckoutSessionsCreated prometheus.Counter
	AppointmentsCommitted   prometheus.Counter
	DuplicateConfirmations  prometheus.Counter
	FailedPayments          prometheus.Counter
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	DatabaseOperations      *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		CheckoutSessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_created_total",
			Help:      "Total number of payment checkout sessions created",
		}),
		AppointmentsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_committed_total",
			Help:      "Total number of appointments committed after payment confirmation",
		}),
		DuplicateConfirmations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_confirmations_total",
			Help:      "Total number of confirmation callbacks resolved as already committed",
		}),
		FailedPayments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_payments_total",
			Help:      "Total number of confirmations with a non-paid session status",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of outbox events published",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to publish",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Duration of outbox processing batches in seconds",
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations by name and result",
		}, []string{"operation", "result"}),
	}
}
