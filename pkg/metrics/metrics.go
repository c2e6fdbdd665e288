// Package metrics exposes the Prometheus collectors shared by the inquiry API
// and the form sink.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "bookingdesk"

var idSegment = regexp.MustCompile(`/id/[^/]+`)

type Config struct {
	Namespace string
	Registry  *prometheus.Registry
	Buckets   []float64
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry registers every collector on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	activeSessions     prometheus.Gauge
	sinkInquiries      *prometheus.CounterVec
	published          *prometheus.CounterVec
	publishDuration    *prometheus.HistogramVec
}

func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: DefaultNamespace,
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"method", "route"}),

		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "inquiry_submissions_total",
			Help:      "Inquiry submissions by channel and outcome",
		}, []string{"channel", "outcome"}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "inquiry_validation_failures_total",
			Help:      "Rejected inquiry fields by field name",
		}, []string{"field"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "form_sessions_active",
			Help:      "Form sessions currently held in memory",
		}),

		sinkInquiries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "sink_inquiries_total",
			Help:      "Form posts received by the sink by result",
		}, []string{"result"}),

		published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "kafka_messages_published_total",
			Help:      "Kafka publish attempts by topic and status",
		}, []string{"topic", "status"}),

		publishDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"topic"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordSubmission(channel, outcome string) {
	m.submissions.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) RecordValidationFailure(errs map[string]string) {
	for field := range errs {
		m.validationFailures.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

func (m *Metrics) SessionsClosed(n int) {
	m.activeSessions.Sub(float64(n))
}

func (m *Metrics) RecordSinkInquiry(result string) {
	m.sinkInquiries.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordPublish(topic string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.published.WithLabelValues(topic, status).Inc()
	m.publishDuration.WithLabelValues(topic).Observe(d.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts and times every request. Session IDs are folded into the
// route label to keep its cardinality bounded.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := RouteLabel(r.URL.Path)
			m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func RouteLabel(path string) string {
	return idSegment.ReplaceAllString(path, "/id/:id")
}
