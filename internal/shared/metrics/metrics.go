package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid_input"
	OutcomeUnsupported = "unsupported_type"
	OutcomeExtraction  = "extraction_failed"
	OutcomeNotFound    = "not_found"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	analysisTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_analysis_total",
			Help: "Total analyses by outcome",
		},
		[]string{"outcome"},
	)

	analysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobfit_analysis_duration_seconds",
		Help:    "Analysis duration in seconds, extraction included",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	matchScore = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobfit_match_score",
		Help:    "Distribution of reported match scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})

	extractionFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_extraction_failures_total",
			Help: "Document extraction failures by mime type",
		},
		[]string{"mime_type"},
	)

	reportsRendered = factory.NewCounter(prometheus.CounterOpts{
		Name: "jobfit_reports_rendered_total",
		Help: "Total optimization reports rendered",
	})

	rateLimited = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobfit_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"group"},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry exposes the collector registry used by this package.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveAnalysis records one analysis attempt.
func ObserveAnalysis(outcome string, elapsed time.Duration) {
	analysisTotal.WithLabelValues(outcome).Inc()
	analysisDuration.Observe(elapsed.Seconds())
}

// ObserveMatchScore records a reported score.
func ObserveMatchScore(score int) {
	matchScore.Observe(float64(score))
}

// IncExtractionFailure counts a failed extraction for the given mime type.
func IncExtractionFailure(mimeType string) {
	if mimeType == "" {
		mimeType = "unknown"
	}
	extractionFailures.WithLabelValues(mimeType).Inc()
}

// IncReportRendered counts a rendered report.
func IncReportRendered() {
	reportsRendered.Inc()
}

// IncRateLimited counts a rejected request.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
}

// HTTPBuilder builds request metrics middleware.
type HTTPBuilder struct {
	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
}

var defaultHTTP = NewHTTPBuilder(registry)

// NewHTTPBuilder registers request collectors on reg.
func NewHTTPBuilder(reg prometheus.Registerer) *HTTPBuilder {
	f := promauto.With(reg)
	return &HTTPBuilder{
		summaryVec: f.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		counterVec: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// HTTPMiddleware returns the request metrics middleware bound to the package registry.
func HTTPMiddleware() gin.HandlerFunc {
	return defaultHTTP.Build()
}

// Build returns the gin middleware.
func (b *HTTPBuilder) Build() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		b.summaryVec.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		b.counterVec.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
