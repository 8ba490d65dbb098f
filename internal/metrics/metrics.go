package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	JobsStarted     *prometheus.CounterVec
	JobsCompleted   *prometheus.CounterVec
	JobsFailed      *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec
	FramesProcessed prometheus.Counter
	DetectionsTotal prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics instance with its own Prometheus registry.
func New() *Metrics {
	m := &Metrics{
		JobsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detector_jobs_started_total",
				Help: "Total detection jobs started",
			},
			[]string{"media_type"},
		),
		JobsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detector_jobs_completed_total",
				Help: "Total detection jobs completed successfully",
			},
			[]string{"media_type"},
		),
		JobsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "detector_jobs_failed_total",
				Help: "Total detection jobs aborted by an error",
			},
			[]string{"media_type"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "detector_job_duration_seconds",
				Help:    "Wall-clock pipeline duration per job",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"media_type"},
		),
		FramesProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "detector_frames_processed_total",
				Help: "Total frames run through the detection model",
			},
		),
		DetectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "detector_detections_total",
				Help: "Total bounding boxes reported by the model",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.JobsStarted,
		m.JobsCompleted,
		m.JobsFailed,
		m.JobDuration,
		m.FramesProcessed,
		m.DetectionsTotal,
	)

	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
