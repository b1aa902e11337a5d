package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so components can run without monitoring in tests.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Application metrics
	Resolutions  *prometheus.CounterVec
	Launches     *prometheus.CounterVec
	Terminations *prometheus.CounterVec

	// Reminder metrics
	RemindersActive prometheus.Gauge
	RemindersFired  prometheus.Counter
	RemindersEvents *prometheus.CounterVec

	// Notification metrics
	Notifications *prometheus.CounterVec
	QueueDepth    prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_commands_total",
				Help: "Total number of executed commands",
			},
			[]string{"service", "method", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method"},
		),

		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_app_resolutions_total",
				Help: "Application resolutions by winning source",
			},
			[]string{"source", "outcome"},
		),
		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_app_launches_total",
				Help: "Application launches by target kind",
			},
			[]string{"kind", "outcome"},
		),
		Terminations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_app_terminations_total",
				Help: "Application terminations",
			},
			[]string{"outcome"},
		),

		RemindersActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_reminders_active",
				Help: "Number of active reminders",
			},
		),
		RemindersFired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_reminders_fired_total",
				Help: "Total number of reminder firings",
			},
		),
		RemindersEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_reminder_events_total",
				Help: "Reminder lifecycle events",
			},
			[]string{"event"},
		),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_notifications_total",
				Help: "Notification deliveries by outcome",
			},
			[]string{"outcome"},
		),
		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_notification_queue_depth",
				Help: "Notifications waiting for delivery",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records one executed command
func (m *Metrics) RecordCommand(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(service, method, status).Inc()
	m.CommandDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordResolution records which source won a resolution, or "none"
func (m *Metrics) RecordResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(source, outcome).Inc()
}

// RecordLaunch records a launch attempt
func (m *Metrics) RecordLaunch(kind, outcome string) {
	if m == nil {
		return
	}
	m.Launches.WithLabelValues(kind, outcome).Inc()
}

// RecordTermination records a terminate attempt
func (m *Metrics) RecordTermination(outcome string) {
	if m == nil {
		return
	}
	m.Terminations.WithLabelValues(outcome).Inc()
}

// SetRemindersActive sets the active reminder gauge
func (m *Metrics) SetRemindersActive(count int) {
	if m == nil {
		return
	}
	m.RemindersActive.Set(float64(count))
}

// IncRemindersFired counts one reminder firing
func (m *Metrics) IncRemindersFired() {
	if m == nil {
		return
	}
	m.RemindersFired.Inc()
}

// RecordReminderEvent counts a lifecycle event (set, cancelled, completed, purged)
func (m *Metrics) RecordReminderEvent(event string) {
	if m == nil {
		return
	}
	m.RemindersEvents.WithLabelValues(event).Inc()
}

// RecordNotification counts a delivery outcome (delivered, failed, dropped)
func (m *Metrics) RecordNotification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

// SetQueueDepth sets the notification queue depth gauge
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments active WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements active WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
