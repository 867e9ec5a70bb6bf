// Package metrics exposes Prometheus collectors for HTTP traffic and the
// metered, referral and geocoding flows.
package metrics

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fammo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fammo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AIActionsTotal counts metered actions by outcome: success, limit_exceeded, failed.
	AIActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fammo_ai_actions_total",
			Help: "Total number of metered AI actions by outcome",
		},
		[]string{"action", "outcome"},
	)

	AIActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fammo_ai_action_duration_seconds",
			Help:    "Duration of metered AI actions including the model call",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"action"},
	)

	UsageRowsReset = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fammo_ai_usage_rows_reset_total",
			Help: "Total number of stale usage rows rolled into a new month",
		},
	)

	ReferralEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fammo_referral_events_total",
			Help: "Total number of referral attribution events",
		},
		[]string{"event"},
	)

	ReferralCodesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fammo_referral_codes_issued_total",
			Help: "Total number of referral codes created",
		},
	)

	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fammo_geocode_requests_total",
			Help: "Total number of clinic geocoding attempts",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAIAction(action, outcome string, seconds float64) {
	AIActionsTotal.WithLabelValues(action, outcome).Inc()
	if outcome == "success" {
		AIActionDuration.WithLabelValues(action).Observe(seconds)
	}
}

func RecordUsageReset(rows int) {
	UsageRowsReset.Add(float64(rows))
}

func RecordReferralEvent(event string) {
	ReferralEventsTotal.WithLabelValues(event).Inc()
}

func RecordReferralCodeIssued() {
	ReferralCodesIssued.Inc()
}

func RecordGeocode(found bool) {
	result := "not_found"
	if found {
		result = "found"
	}
	GeocodeRequestsTotal.WithLabelValues(result).Inc()
}

// RegisterDBStats exposes the connection pool statistics of db. A second
// registration for the same database name is ignored.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
