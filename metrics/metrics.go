// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "realestate"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DealRequestsTotal  *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	AgentDecisions     *prometheus.CounterVec
	UploadsTotal       *prometheus.CounterVec
	WebsocketClients   prometheus.Gauge
}

// New builds the collectors on a private registry so several instances can
// live in one process (tests build one per router).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DealRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "events_total",
			Help:      "Deal requests sent and accepted",
		}, []string{"event"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Notifications persisted, by purpose",
		}, []string{"purpose"}),
		AgentDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agents",
			Name:      "decisions_total",
			Help:      "Agent requests approved or rejected",
		}, []string{"decision"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "files_total",
			Help:      "Uploaded files, by folder",
		}, []string{"folder"}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Open websocket connections",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DealRequestsTotal,
		m.NotificationsTotal,
		m.AgentDecisions,
		m.UploadsTotal,
		m.WebsocketClients,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so callers never need to check
// whether metrics are enabled.

func (m *Metrics) DealEvent(event string) {
	if m == nil {
		return
	}
	m.DealRequestsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationSent(purpose string) {
	if m == nil {
		return
	}
	if purpose == "" {
		purpose = "none"
	}
	m.NotificationsTotal.WithLabelValues(purpose).Inc()
}

func (m *Metrics) AgentDecision(decision string) {
	if m == nil {
		return
	}
	m.AgentDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) Uploaded(folder string, n int) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(folder).Add(float64(n))
}

func (m *Metrics) WebsocketConnected(delta int) {
	if m == nil {
		return
	}
	m.WebsocketClients.Add(float64(delta))
}
