package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	GenerationRequests prometheus.Counter
	GenerationErrors   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	SlidesGenerated    prometheus.Counter

	FeedbackSubmissions prometheus.Counter
}

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		GenerationRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "slideforge_generation_requests_total",
			Help: "Total number of presentation generation requests",
		}),

		GenerationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "slideforge_generation_errors_total",
			Help: "Total number of failed generation requests by failure kind",
		}, []string{"error_type"}), // "client_input", "titles", "bodies", "artifact"

		GenerationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "slideforge_generation_duration_seconds",
			Help:    "End-to-end generation latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300}, // multi-slide LLM batches can be slow
		}),

		SlidesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "slideforge_slides_generated_total",
			Help: "Total number of slides written into saved artifacts",
		}),

		FeedbackSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "slideforge_feedback_submissions_total",
			Help: "Total number of user feedback submissions",
		}),
	}

	return metrics
}
