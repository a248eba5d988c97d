// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizlink_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizlink_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// HTTPInFlight tracks requests currently being served
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bizlink_http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// EventListings counts event listings by the source they were served from
	EventListings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizlink_event_listings_total",
			Help: "Event listings served, by source",
		},
		[]string{"source"},
	)

	// FeedFailures counts failed fetches of the external events feed
	FeedFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizlink_events_feed_failures_total",
			Help: "Failed fetches of the external events feed",
		},
	)

	// WebhookDeliveries counts registration webhook deliveries by outcome
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizlink_registration_webhook_deliveries_total",
			Help: "Free registration webhook deliveries, by outcome",
		},
		[]string{"outcome"},
	)

	// TokensPruned counts refresh tokens removed by the cleanup job
	TokensPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizlink_refresh_tokens_pruned_total",
			Help: "Refresh tokens removed by the scheduled cleanup",
		},
	)
)
