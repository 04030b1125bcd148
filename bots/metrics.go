package bots

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var botRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tickersim_bot_runs_total",
	Help: "Bot production runs by outcome",
}, []string{"bot", "result"})
