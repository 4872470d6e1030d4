package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Referral consumption outcomes recorded by ObserveReferralConsumption.
const (
	ReferralOutcomeOK        = "ok"
	ReferralOutcomeInvalid   = "invalid"
	ReferralOutcomeInactive  = "inactive"
	ReferralOutcomeExpired   = "expired"
	ReferralOutcomeExhausted = "exhausted"
)

// MetricsService encapsulates Prometheus instrumentation. All observers
// are nil-receiver safe so instrumentation stays optional in tests.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	referralUses    *prometheus.CounterVec
	enrollments     prometheus.Counter
	keygenAttempts  prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Completed registrations by role",
	}, []string{"role"})

	referralUses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "referral_consumptions_total",
		Help: "Referral code consumption attempts by outcome",
	}, []string{"outcome"})

	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_total",
		Help: "Committed course enrollments",
	})

	keygenAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "keygen_attempts",
		Help:    "Attempts taken by the unique key generation loop",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, registrations, referralUses,
		enrollments, keygenAttempts, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		registrations:   registrations,
		referralUses:    referralUses,
		enrollments:     enrollments,
		keygenAttempts:  keygenAttempts,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRegistration counts a completed registration for a role.
func (m *MetricsService) ObserveRegistration(role string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(role).Inc()
}

// ObserveReferralConsumption counts one consumption attempt by outcome.
func (m *MetricsService) ObserveReferralConsumption(outcome string) {
	if m == nil {
		return
	}
	m.referralUses.WithLabelValues(outcome).Inc()
}

// ObserveEnrollment counts one committed enrollment.
func (m *MetricsService) ObserveEnrollment() {
	if m == nil {
		return
	}
	m.enrollments.Inc()
}

// ObserveKeygenAttempts records how many tries the unique loop needed.
func (m *MetricsService) ObserveKeygenAttempts(attempts int) {
	if m == nil {
		return
	}
	m.keygenAttempts.Observe(float64(attempts))
}

// RecordCacheOperation counts a dashboard cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
