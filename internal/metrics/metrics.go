package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ecobin"

var (
	StoreRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity_store",
		Name:      "requests_total",
		Help:      "Activity store calls by store, operation and outcome.",
	}, []string{"store", "operation", "outcome"})

	StoreFailovers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity_store",
		Name:      "failovers_total",
		Help:      "Reads answered by the fallback store after the primary failed.",
	}, []string{"operation"})

	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "connected_clients",
		Help:      "Dashboard clients currently connected.",
	})

	EventsBroadcast = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "events_broadcast_total",
		Help:      "Realtime events handed to the hub.",
	}, []string{"event"})

	EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "events_dropped_total",
		Help:      "Per-client deliveries skipped because the client buffer was full.",
	})

	EventsMirrored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kafka",
		Name:      "events_total",
		Help:      "Events mirrored to Kafka by outcome.",
	}, []string{"outcome"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		StoreRequests,
		StoreFailovers,
		WebsocketClients,
		EventsBroadcast,
		EventsDropped,
		EventsMirrored,
		HTTPRequests,
		HTTPDuration,
	)
}

// ObserveStore records one store call
func ObserveStore(store, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreRequests.WithLabelValues(store, operation, outcome).Inc()
}

// ObserveHTTP records a finished request
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
