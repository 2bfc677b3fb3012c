package player

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepviz_player_transitions_total",
		Help: "Player status transitions",
	}, []string{"from", "to"})

	loads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepviz_player_loads_total",
		Help: "Load requests by outcome (ok, invalid, failed)",
	}, []string{"outcome"})

	staleTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stepviz_player_stale_ticks_total",
		Help: "Auto-advance ticks ignored because their timeline was replaced or paused",
	})
)
