package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tickersim_events_published_total",
	Help: "Total number of new-post events published",
})

var eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tickersim_events_dropped_total",
	Help: "Total number of events dropped due to slow subscribers",
})

var subscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "tickersim_event_subscribers",
	Help: "Number of currently connected event subscribers",
})
