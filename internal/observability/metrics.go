package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"app", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labelctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"app", "method", "path", "status"},
	)
	printDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelctl",
			Subsystem: "printer",
			Name:      "deliveries_total",
			Help:      "Label deliveries to printers by outcome.",
		},
		[]string{"printer", "outcome"},
	)
	printBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelctl",
			Subsystem: "printer",
			Name:      "bytes_sent_total",
			Help:      "Raw bytes written to printers.",
		},
		[]string{"printer"},
	)
	printDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "labelctl",
			Subsystem: "printer",
			Name:      "delivery_duration_seconds",
			Help:      "Printer delivery duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"printer", "outcome"},
	)
	previewRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labelctl",
			Subsystem: "preview",
			Name:      "requests_total",
			Help:      "Preview render requests by backend.",
		},
		[]string{"backend", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			printDeliveries,
			printBytes,
			printDuration,
			previewRequests,
		)
	})
}

func RecordHTTPRequest(app, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(app, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(app, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDelivery(printer, outcome string, bytesSent int, duration time.Duration) {
	RegisterMetrics()
	printDeliveries.WithLabelValues(printer, outcome).Inc()
	printBytes.WithLabelValues(printer).Add(float64(bytesSent))
	printDuration.WithLabelValues(printer, outcome).Observe(duration.Seconds())
}

func RecordPreview(backend string, success bool) {
	RegisterMetrics()
	previewRequests.WithLabelValues(backend, strconv.FormatBool(success)).Inc()
}
