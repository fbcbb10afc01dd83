package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultRegistry is the registry exposed on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		ChatTotal, ChatDuration,
		ToolCallsTotal,
		HTTPRequestsTotal, HTTPRequestDuration,
	)
}

// ChatTotal counts answered chat turns by the reported tool_used label.
var ChatTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zus_chat_total",
		Help: "Chat turns answered, by tool used.",
	},
	[]string{"tool_used"}, // Calculator | Product RAG | Outlet Text2SQL | Error Handler | none
)

var ChatDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "zus_chat_duration_seconds",
		Help:    "End-to-end chat turn latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
)

var ToolCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zus_tool_calls_total",
		Help: "Tool calls issued by the planner.",
	},
	[]string{"tool", "capability"},
)

var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zus_http_requests_total",
		Help: "HTTP requests by route and status code.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "zus_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ToolUsedLabel maps an empty tool_used to "none".
func ToolUsedLabel(toolUsed string) string {
	if toolUsed == "" {
		return "none"
	}
	return toolUsed
}

func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}
