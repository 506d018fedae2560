package bench

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// trialsTotal prometheus metric.
	trialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of finished benchmark trials",
			Name:      "bench_trials_total",
			Namespace: "psv",
		},
		[]string{"result"},
	)
	// trialsQueued prometheus metric.
	trialsQueued = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of benchmark trials waiting for a worker",
			Name:      "bench_trials_queued",
			Namespace: "psv",
		},
	)
	// trialInstructions prometheus metric.
	trialInstructions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Help:      "Number of instructions used by successful trials",
			Name:      "bench_trial_instructions",
			Namespace: "psv",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		},
	)
)

func init() {
	prometheus.MustRegister(
		trialsTotal,
		trialsQueued,
		trialInstructions,
	)
}

func updateQueuedMetric(n int64) {
	trialsQueued.Set(float64(n))
}

func addPassedTrialMetric(instructions int) {
	trialsTotal.WithLabelValues("passed").Inc()
	trialInstructions.Observe(float64(instructions))
}

func addFailedTrialMetric() {
	trialsTotal.WithLabelValues("failed").Inc()
}
