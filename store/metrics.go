package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tickersim_posts_appended_total",
	Help: "Total number of posts appended to the store",
}, []string{"kind"})

var postsEvicted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tickersim_posts_evicted_total",
	Help: "Total number of posts truncated by the retention cap",
})

var likesRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tickersim_post_likes_total",
	Help: "Total number of likes recorded",
})
