package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	recordDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkdash",
			Name:      "record_deletes_total",
			Help:      "Booking deletions by outcome.",
		},
		[]string{"outcome"},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkdash",
			Name:      "exports_total",
			Help:      "Export files generated by format.",
		},
		[]string{"format"},
	)

	sheetsSync = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkdash",
			Name:      "sheets_sync_total",
			Help:      "Spreadsheet mirror syncs by outcome.",
		},
		[]string{"outcome"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkdash",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, recordDeletes, exports, sheetsSync, loginAttempts)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncDelete counts a deletion attempt by outcome ("ok", "not_found", "error").
func IncDelete(outcome string) {
	recordDeletes.WithLabelValues(outcome).Inc()
}

// IncExport counts a generated export by format.
func IncExport(format string) {
	exports.WithLabelValues(format).Inc()
}

// IncSheetsSync counts a mirror sync by outcome ("ok", "error").
func IncSheetsSync(outcome string) {
	sheetsSync.WithLabelValues(outcome).Inc()
}

// IncLogin counts a login attempt by outcome ("ok", "rejected").
func IncLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}
