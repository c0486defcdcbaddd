// Package metrics exposes Prometheus counters for the webhook and read API.
package metrics

import (
	"wordmeter/internal/models"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordmeter"

var (
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_requests_total",
		Help:      "Webhook deliveries by outcome.",
	}, []string{"outcome"})

	QueryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_requests_total",
		Help:      "Read API requests by outcome.",
	}, []string{"outcome"})

	CommitsCounted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commits_counted_total",
		Help:      "Commits whose word counts were saved.",
	})

	WordsCounted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "words_total",
		Help:      "Estimated words across saved commits, by kind.",
	}, []string{"kind"})

	DiffFetchSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "diff_fetch_seconds",
		Help:      "Latency of single commit diff fetches.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveRecord accounts one saved commit.
func ObserveRecord(record models.CommitRecord) {
	CommitsCounted.Inc()
	WordsCounted.WithLabelValues("added").Add(float64(record.WordCount.Added))
	WordsCounted.WithLabelValues("deleted").Add(float64(record.WordCount.Deleted))
}

// Handler serves the default registry in the text exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
