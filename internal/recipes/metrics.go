package recipes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebrowser_api_requests_total",
			Help: "Total number of requests made to the recipe API",
		},
		[]string{"operation", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebrowser_api_request_duration_seconds",
			Help:    "Recipe API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	apiListsShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipebrowser_api_list_shared_total",
			Help: "List calls answered by an upstream request already in flight",
		},
	)
)
