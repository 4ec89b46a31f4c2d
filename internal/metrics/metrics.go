package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "The current number of active WebSocket connections.",
	})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_connections_total",
		Help: "The total number of WebSocket connections accepted.",
	})
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_received_total",
		Help: "The total number of inbound client events, by event type.",
	}, []string{"type"})
	EventsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_events_sent_total",
		Help: "The total number of events delivered to clients.",
	})
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_events_dropped_total",
		Help: "The total number of events dropped because a client's send buffer was full.",
	})
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_uploads_total",
		Help: "The total number of files accepted by the upload endpoint.",
	})
)

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
