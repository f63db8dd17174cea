// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sehhaty_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RequestsCreated counts service requests created per type.
	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sehhaty_requests_created_total",
		Help: "Total number of service requests created, by request type",
	}, []string{"type"})

	// RequestTransitions counts request status transitions.
	RequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sehhaty_request_transitions_total",
		Help: "Total number of request status transitions, by target status",
	}, []string{"status"})

	// AttachmentBytesStored counts bytes written to attachment storage.
	AttachmentBytesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sehhaty_attachment_bytes_stored_total",
		Help: "Total attachment bytes written to storage",
	})

	// AttachmentCleanups counts compensating deletes after a failed attachment insert.
	AttachmentCleanups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sehhaty_attachment_cleanups_total",
		Help: "Total compensating file deletions after a failed attachment record insert",
	})

	// SessionsInvalidated counts sessions destroyed eagerly on first use.
	SessionsInvalidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sehhaty_sessions_invalidated_total",
		Help: "Total sessions invalidated eagerly, by reason",
	}, []string{"reason"})
)
