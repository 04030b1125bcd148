package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsSentCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tickersim_ws_events_sent_total",
	Help: "Events delivered to websocket consumers",
}, []string{"remote_addr"})
