package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Backend client metrics
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	// Business metrics
	scansTotal      *prometheus.CounterVec
	scanDuration    prometheus.Histogram
	detailRequests  *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	watchlistAdds   *prometheus.CounterVec
	meetingCriteria prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_backend_requests_total",
			Help: "Total number of requests sent to the screening backend",
		},
		[]string{"endpoint", "status"},
	)
	r.backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screener_backend_request_duration_seconds",
			Help:    "Screening backend request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	reg.MustRegister(r.backendRequests)
	reg.MustRegister(r.backendRequestDuration)

	// Business metrics
	r.scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_scans_total",
			Help: "Total number of scans by outcome",
		},
		[]string{"status"},
	)
	r.scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_scan_duration_seconds",
			Help:    "Scan duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.detailRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_detail_requests_total",
			Help: "Total number of stock detail loads by outcome",
		},
		[]string{"status"},
	)
	r.notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_notifications_total",
			Help: "Total number of status messages shown",
		},
		[]string{"severity"},
	)
	r.watchlistAdds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_watchlist_adds_total",
			Help: "Total number of watchlist additions by outcome",
		},
		[]string{"status"},
	)
	r.meetingCriteria = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_stocks_meeting_criteria",
			Help: "Number of stocks meeting criteria in the last successful scan",
		},
	)

	reg.MustRegister(r.scansTotal)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.detailRequests)
	reg.MustRegister(r.notifications)
	reg.MustRegister(r.watchlistAdds)
	reg.MustRegister(r.meetingCriteria)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordBackendRequest records one call to the screening backend.
func (r *Registry) RecordBackendRequest(endpoint, status string, seconds float64) {
	r.backendRequests.WithLabelValues(endpoint, status).Inc()
	r.backendRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordScan records a scan outcome. Rejected scans carry no duration.
func (r *Registry) RecordScan(status string, duration time.Duration) {
	r.scansTotal.WithLabelValues(status).Inc()
	if duration > 0 {
		r.scanDuration.Observe(duration.Seconds())
	}
}

// RecordDetail records a detail load outcome.
func (r *Registry) RecordDetail(status string) {
	r.detailRequests.WithLabelValues(status).Inc()
}

// RecordNotification records a shown status message.
func (r *Registry) RecordNotification(severity string) {
	r.notifications.WithLabelValues(severity).Inc()
}

// RecordWatchlistAdd records a watchlist addition outcome.
func (r *Registry) RecordWatchlistAdd(status string) {
	r.watchlistAdds.WithLabelValues(status).Inc()
}

// SetMeetingCriteria sets the size of the last scan result.
func (r *Registry) SetMeetingCriteria(n int) {
	r.meetingCriteria.Set(float64(n))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
