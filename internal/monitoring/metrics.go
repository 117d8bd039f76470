package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scan metrics
	scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_monitor_scans_total",
			Help: "Total number of portfolio scan cycles",
		},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_monitor_scan_duration_seconds",
			Help:    "Duration of a full portfolio scan",
			Buckets: prometheus.DefBuckets,
		},
	)

	positionsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_monitor_positions_evaluated_total",
			Help: "Positions evaluated, labelled by resulting status",
		},
		[]string{"status"},
	)

	// Position metrics
	positionPnL = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_monitor_position_pnl_percent",
			Help: "Current unrealized P&L percent per ticker",
		},
		[]string{"ticker"},
	)

	positionSLRisk = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_monitor_position_sl_risk",
			Help: "Stop loss risk score per ticker",
		},
		[]string{"ticker"},
	)

	// Alert metrics
	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_monitor_alerts_total",
			Help: "Alerts raised, labelled by priority",
		},
		[]string{"priority"},
	)

	emailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_monitor_emails_sent_total",
			Help: "Alert emails delivered",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_monitor_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(scansTotal)
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(positionsEvaluated)
	prometheus.MustRegister(positionPnL)
	prometheus.MustRegister(positionSLRisk)
	prometheus.MustRegister(alertsTotal)
	prometheus.MustRegister(emailsSent)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordScan records one completed scan cycle
func RecordScan(duration time.Duration) {
	scansTotal.Inc()
	scanDuration.Observe(duration.Seconds())
}

// RecordEvaluation records one evaluated position
func RecordEvaluation(ticker, status string, pnlPercent float64, slRisk int) {
	positionsEvaluated.WithLabelValues(status).Inc()
	positionPnL.WithLabelValues(ticker).Set(pnlPercent)
	positionSLRisk.WithLabelValues(ticker).Set(float64(slRisk))
}

// RecordAlert records a raised alert
func RecordAlert(priority string) {
	alertsTotal.WithLabelValues(priority).Inc()
}

// RecordEmailSent records a delivered alert email
func RecordEmailSent() {
	emailsSent.Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
