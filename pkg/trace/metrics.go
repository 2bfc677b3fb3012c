package trace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	timelinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepviz_timelines_materialized_total",
		Help: "Timelines materialized, by algorithm",
	}, []string{"algorithm"})

	eventsFolded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stepviz_events_folded_total",
		Help: "Events folded into snapshots across all materializations",
	})

	materializeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepviz_materialize_failures_total",
		Help: "Materializations discarded, by error code",
	}, []string{"code"})

	materializeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stepviz_materialize_duration_seconds",
		Help:    "Wall time spent driving a producer to completion",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25},
	})
)
