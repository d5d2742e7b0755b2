package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comic_generator_pipeline_runs_total",
		Help: "Total number of comic generation requests started.",
	})
	generationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comic_generator_pipeline_failures_total",
		Help: "Total number of comic generation requests that failed, by stage.",
	}, []string{"stage"})
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comic_generator_pipeline_duration_seconds",
		Help:    "Histogram of end-to-end comic generation durations.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	sceneImagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comic_generator_scene_images_total",
		Help: "Total number of scene images generated.",
	})
)

func metricsRecordRunStarted()                 { generationsTotal.Inc() }
func metricsRecordRunFailed(stage string)      { generationsFailed.WithLabelValues(stage).Inc() }
func metricsRecordRunDuration(d time.Duration) { generationDuration.Observe(d.Seconds()) }
func metricsRecordSceneImage()                 { sceneImagesTotal.Inc() }
