package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed analyses.
	OutcomeSuccess = "success"
	// OutcomeError labels failed analyses (validation or dependency issues).
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "analyses_total",
			Help:      "Total number of analyses handled, partitioned by outcome and classification.",
		},
		[]string{"outcome", "classification"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "guardian",
			Name:      "analysis_seconds",
			Help:      "Analysis latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
	)

	explanationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "explanations_total",
			Help:      "Explanations produced, partitioned by source tier.",
		},
		[]string{"source"},
	)
)

// Register attaches the service collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		explanationsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration, outcome, and classification.
func ObserveAnalysis(duration time.Duration, outcome, classification string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	if classification == "" {
		classification = "none"
	}
	analysesTotal.WithLabelValues(label, classification).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// ObserveExplanation records which tier produced an explanation.
func ObserveExplanation(remote bool) {
	source := "local"
	if remote {
		source = "remote"
	}
	explanationsTotal.WithLabelValues(source).Inc()
}
