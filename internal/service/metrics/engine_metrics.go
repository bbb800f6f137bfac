package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinscope",
			Subsystem: "scoring",
			Name:      "latency_seconds",
			Help:      "Latency of scoring engine runs",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinscope",
			Subsystem: "scoring",
			Name:      "errors_total",
			Help:      "Errors by scoring engine",
		},
		[]string{"engine"},
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinscope",
			Subsystem: "scoring",
			Name:      "predictions_total",
			Help:      "Predictions generated by timeframe",
		},
		[]string{"timeframe"},
	)

	RiskScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinscope",
			Subsystem: "scoring",
			Name:      "risk_scores_total",
			Help:      "Risk scores produced by risk level",
		},
		[]string{"level"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EngineLatency, EngineErrors, PredictionsTotal, RiskScoresTotal)
	})
}
