// Package metrics holds the Prometheus collectors for the shop API.
// Collectors register with the default registry on package init and are
// served by promhttp on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chess_shop"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthzDecisionsTotal counts authorization decisions.
	// Labels:
	//   - action: the requested action (e.g. "MODERATE_COMMENT")
	//   - result: "permit" or "deny"
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Total number of authorization decisions, by action and result.",
		},
		[]string{"action", "result"},
	)

	// ModerationTransitionsTotal counts applied moderation status changes.
	// Labels:
	//   - entity: "product" or "comment"
	//   - status: the status written
	ModerationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_transitions_total",
			Help:      "Total number of moderation transitions applied.",
		},
		[]string{"entity", "status"},
	)

	RolesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roles_created_total",
			Help:      "Total number of role rows created by the role catalog.",
		},
		[]string{"kind"},
	)

	CategoriesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "categories_created_total",
			Help:      "Total number of categories created on first reference.",
		},
	)

	ExpiredSessionsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_sessions_cleaned_total",
			Help:      "Total number of expired sessions removed by the cleanup loop.",
		},
	)
)

func RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAuthzDecision(action string, permitted bool) {
	result := "deny"
	if permitted {
		result = "permit"
	}
	AuthzDecisionsTotal.WithLabelValues(action, result).Inc()
}

func RecordModerationTransition(entity, status string) {
	ModerationTransitionsTotal.WithLabelValues(entity, status).Inc()
}

func RecordRoleCreated(kind string) {
	RolesCreatedTotal.WithLabelValues(kind).Inc()
}

func RecordCategoryCreated() {
	CategoriesCreatedTotal.Inc()
}

func RecordSessionsCleaned(n int64) {
	ExpiredSessionsCleaned.Add(float64(n))
}
