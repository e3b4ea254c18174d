// Package metrics defines and registers all custom Prometheus metrics for the
// Ghost Admin client and the webhook receiver. It is the single source of
// truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ghost"

// ── Admin API client metrics ──────────────────────────────────────────────────

// AdminRequestsTotal counts Admin API round trips.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "auth", "not_found", "validation", "api", "connection"
var AdminRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_requests_total",
		Help:      "Total number of Ghost Admin API requests, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// AdminRequestDuration measures Admin API round trip latency.
var AdminRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "admin_request_duration_seconds",
		Help:      "Duration of Ghost Admin API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// BatchItemsTotal counts batch CLI items by operation and result.
// Labels:
//   - op: "create", "update", "delete"
//   - result: "ok", "not_found", "failed", "dry_run"
var BatchItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_items_total",
		Help:      "Total number of batch post operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Webhook receiver metrics ──────────────────────────────────────────────────

// WebhooksReceivedTotal counts deliveries accepted by the receiver.
// Label:
//   - event: Ghost event name (e.g. "post.published")
var WebhooksReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_received_total",
		Help:      "Total number of webhook deliveries accepted.",
	},
	[]string{"event"},
)

// WebhooksRejectedTotal counts deliveries rejected before queueing.
// Label:
//   - reason: "malformed", "mismatch", "expired", "payload", "unknown_event", "queue"
var WebhooksRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_rejected_total",
		Help:      "Total number of webhook deliveries rejected.",
	},
	[]string{"reason"},
)

// EventsProcessedTotal counts events that completed processing successfully.
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of webhook events successfully processed.",
	},
	[]string{"event"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "duplicate" (skipped), "new" (processed) or "error" (store unavailable, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result.",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single event takes to process end-to-end.
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of webhook event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
