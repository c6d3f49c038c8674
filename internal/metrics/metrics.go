// Package metrics defines and registers all custom Prometheus metrics for the
// PickMe API. It is the single source of truth for metric names, labels, and
// help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pickme"

// ── Payment webhook metrics ──────────────────────────────────────────────────

// PaymentsProcessedTotal counts webhook transactions that settled an order.
// Label:
//   - gateway: the reporting bank gateway (e.g. "MBBank")
var PaymentsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_processed_total",
		Help:      "Total number of webhook transactions successfully applied to orders.",
	},
	[]string{"gateway"},
)

// PaymentsErrorsTotal counts webhook transactions that failed processing.
// Label:
//   - reason: short failure description (e.g. "order_not_found", "amount_mismatch")
var PaymentsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_errors_total",
		Help:      "Total number of webhook transactions that failed processing.",
	},
	[]string{"reason"},
)

// PaymentsDedupTotal counts idempotency decisions on webhook delivery.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new transaction)
var PaymentsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_dedup_total",
		Help:      "Total number of webhook deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// WebhookRejectedTotal counts webhook requests refused before processing.
// Label:
//   - reason: "bad_key" (shared secret mismatch) or "bad_payload"
var WebhookRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_rejected_total",
		Help:      "Total number of webhook requests rejected at the transport layer.",
	},
	[]string{"reason"},
)

// ── Order metrics ────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly created orders.
// Label:
//   - restaurant_id: the restaurant the order was placed with
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by restaurant.",
	},
	[]string{"restaurant_id"},
)

// ── OTP metrics ──────────────────────────────────────────────────────────────

// OTPCleanupDeletedTotal counts expired reset codes removed by the cleaner.
var OTPCleanupDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_cleanup_deleted_total",
		Help:      "Total number of expired password reset codes deleted by the background cleaner.",
	},
)
