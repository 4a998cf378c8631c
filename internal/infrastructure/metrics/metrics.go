package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task-API metrics
var (
	// HTTP request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Chatbot conversations by outcome (answered or error)
	ChatbotRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "chatbot_requests_total",
			Help:      "Total chatbot conversations by outcome",
		},
		[]string{"outcome"},
	)

	CompletionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "completion_calls_total",
			Help:      "Total calls to the completion endpoint",
		},
		[]string{"stage", "status"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "completion_duration_seconds",
			Help:      "Completion call duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// Tool dispatches against the service's own endpoints
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "tool_dispatch_total",
			Help:      "Total tool dispatches by operation and HTTP status",
		},
		[]string{"operation_id", "status"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "task_api",
			Name:      "tool_dispatch_duration_seconds",
			Help:      "Tool dispatch duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation_id"},
	)
)
