package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ToolCalls       *prometheus.CounterVec
	ToolDuration    *prometheus.HistogramVec
	Events          *prometheus.CounterVec
	SinkErrors      *prometheus.CounterVec
	BufferedEvents  prometheus.Gauge
	ConsentDecision *prometheus.CounterVec
	Relayed         *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "The total number of tool invocations",
		}, []string{"tool", "source", "outcome"}),
		ToolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Time taken to dispatch a tool call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_total",
			Help:      "Analytics events by consent outcome",
		}, []string{"outcome"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_sink_errors_total",
			Help:      "Failed deliveries by sink",
		}, []string{"sink"}),
		BufferedEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analytics_buffered_events",
			Help:      "Events held while consent is pending",
		}),
		ConsentDecision: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consent_decisions_total",
			Help:      "Consent decisions by result",
		}, []string{"state"}),
		Relayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_relayed_total",
			Help:      "Telemetry events read back from kafka by the worker",
		}, []string{"event", "kind"}),
	}
}

func (m *Metrics) ToolCall(tool, source, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, source, outcome).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(seconds)
}

func (m *Metrics) Event(outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.SinkErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) Buffered(n int) {
	if m == nil {
		return
	}
	m.BufferedEvents.Set(float64(n))
}

func (m *Metrics) Decision(state string) {
	if m == nil {
		return
	}
	m.ConsentDecision.WithLabelValues(state).Inc()
}

func (m *Metrics) Relay(event, kind string) {
	if m == nil {
		return
	}
	m.Relayed.WithLabelValues(event, kind).Inc()
}
