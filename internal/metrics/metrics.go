// Package metrics holds the Prometheus instruments of the Places API.
//
// Instruments are registered on the default registry at init and exposed by
// the /metrics route. Callers use the Record* helpers rather than touching
// the vectors directly.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction outcomes
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeTimeout    = "timeout"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Coordinator Metrics
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_transactions_total",
			Help: "Place/user unit-of-work transactions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_transaction_duration_seconds",
			Help:    "Duration of place/user transactions in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Image Metrics
	ImageCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_image_cleanup_failures_total",
			Help: "Images that could not be removed after their place or request was gone",
		},
	)

	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_image_uploads_total",
			Help: "Image uploads by result",
		},
		[]string{"result"}, // "stored", "rejected", "failed", "discarded"
	)

	// Geocoder Metrics
	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_geocode_requests_total",
			Help: "Geocoding lookups by result",
		},
		[]string{"result"}, // "ok", "zero_results", "error", "breaker_open"
	)

	GeocodeBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "places_geocode_breaker_state",
			Help: "Geocoder circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records one served request. route is the router pattern, not the raw path.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransaction records a coordinator transaction
func RecordTransaction(operation, outcome string, duration time.Duration) {
	TransactionsTotal.WithLabelValues(operation, outcome).Inc()
	TransactionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordImageCleanupFailure counts an image left behind in storage
func RecordImageCleanupFailure() {
	ImageCleanupFailures.Inc()
}

// RecordImageUpload counts an upload attempt
func RecordImageUpload(result string) {
	ImageUploadsTotal.WithLabelValues(result).Inc()
}

// RecordGeocode counts a geocoding lookup
func RecordGeocode(result string) {
	GeocodeRequestsTotal.WithLabelValues(result).Inc()
}

// SetGeocodeBreakerState publishes the breaker state
func SetGeocodeBreakerState(state int) {
	GeocodeBreakerState.Set(float64(state))
}
