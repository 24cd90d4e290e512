package render

import (
	"time"

	"voxel-engine/internal/march"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonLabel = "reason"
)

var (
	raysMarched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxel_rays_marched_total",
		Help: "The number of primary rays marched, by termination reason.",
	}, []string{reasonLabel})

	marchSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxel_march_steps",
		Help:    "The number of traversal iterations per ray.",
		Buckets: prometheus.ExponentialBuckets(4, 2, 9),
	})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxel_frame_duration_seconds",
		Help:    "The time taken to march and shade a whole frame.",
		Buckets: prometheus.ExponentialBuckets(0.002, 2, 12),
	})

	framesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxel_frames_cancelled_total",
		Help: "The number of frames abandoned before completion.",
	})
)

func instrumentRow(counts *[3]int, steps []int) {
	for reason, n := range counts {
		if n == 0 {
			continue
		}
		raysMarched.
			With(prometheus.Labels{reasonLabel: march.Reason(reason).String()}).
			Add(float64(n))
	}
	for _, s := range steps {
		marchSteps.Observe(float64(s))
	}
}

func instrumentFrame(d time.Duration) {
	frameDuration.Observe(d.Seconds())
}

func instrumentCancelledFrame() {
	framesCancelled.Inc()
}
