package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackproxy_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slackproxy_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 3},
		},
		[]string{"method", "path"},
	)

	// Dispatch metrics
	DispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackproxy_dispatch_outcomes_total",
			Help: "Total command deliveries to wikis by result",
		},
		[]string{"status", "failure"},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slackproxy_dispatch_duration_seconds",
			Help:    "Duration of a single command delivery to a wiki",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Business metrics
	CommandsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slackproxy_commands_received_total",
			Help: "Total slash commands received by command type",
		},
		[]string{"type"},
	)

	NonePermittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slackproxy_none_permitted_total",
			Help: "Commands no registered wiki was permitted to run",
		},
	)

	RelationsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slackproxy_relations_registered_total",
			Help: "Total wiki relations confirmed",
		},
	)
)
