// Package metrics provides Prometheus metrics for the stowage server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stowage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stowage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Storage backend metrics
	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stowage_storage_operations_total",
			Help: "Total number of object storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stowage_storage_operation_duration_seconds",
			Help:    "Object storage operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	transferBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stowage_transfer_bytes_total",
			Help: "Total bytes moved to or from object storage",
		},
		[]string{"direction"},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stowage_notifications_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"channel", "provider", "status"},
	)
)

// Handler returns the prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordStorageOperation records one call to the object storage backend.
func RecordStorageOperation(backend, operation string, duration time.Duration, success bool) {
	storageOperationsTotal.WithLabelValues(backend, operation, statusLabel(success)).Inc()
	storageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordUpload adds uploaded bytes.
func RecordUpload(bytes int64) {
	if bytes > 0 {
		transferBytesTotal.WithLabelValues("upload").Add(float64(bytes))
	}
}

// RecordDownload adds downloaded bytes.
func RecordDownload(bytes int64) {
	if bytes > 0 {
		transferBytesTotal.WithLabelValues("download").Add(float64(bytes))
	}
}

// RecordNotification records a notification dispatch attempt.
func RecordNotification(channel, provider string, success bool) {
	notificationsTotal.WithLabelValues(channel, provider, statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
