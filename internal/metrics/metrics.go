package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandpulse_runs_total",
		Help: "Pipeline runs by terminal state.",
	}, []string{"status"})

	PostsClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandpulse_posts_classified_total",
		Help: "Per-post classification attempts by outcome.",
	}, []string{"outcome"})

	RecordsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brandpulse_records_written_total",
		Help: "Feedback records persisted to the store.",
	})

	LiveFeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brandpulse_livefeed_subscribers",
		Help: "Currently connected live feed subscribers.",
	})
)
