package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Classifications  *prometheus.CounterVec
	ChatOutcomes     *prometheus.CounterVec
	TurnLatency      prometheus.Histogram
	GeneratorLatency prometheus.Histogram
	GeneratorErrors  *prometheus.CounterVec
	ActiveSockets    prometheus.Gauge
	WSMessages       *prometheus.CounterVec
	Interactions     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers on reg. A nil reg gets a fresh registry, which keeps
// repeated construction in tests from colliding.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_classifications_total",
			Help:      "Intent classifications by source and reason.",
		}, []string{"source", "reason"}),
		ChatOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_outcomes_total",
			Help:      "Processed chat turns by mode and intent.",
		}, []string{"mode", "intent"}),
		TurnLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_turn_latency_ms",
			Help:      "Time spent classifying and grounding one chat turn in milliseconds.",
			Buckets:   []float64{5, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		GeneratorLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generator_latency_ms",
			Help:      "Response generation latency in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		}),
		GeneratorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_errors_total",
			Help:      "Response generation failures by provider.",
		}, []string{"provider"}),
		ActiveSockets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chat_active_sockets",
			Help:      "Number of open chat WebSocket connections.",
		}),
		WSMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		Interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_interactions_total",
			Help:      "Tracked product interactions by type and status.",
		}, []string{"type", "status"}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveClassification(source, reason string) {
	m.Classifications.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) ObserveOutcome(mode, kind string, elapsed time.Duration) {
	m.ChatOutcomes.WithLabelValues(mode, kind).Inc()
	m.TurnLatency.Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) ObserveGeneration(provider string, elapsed time.Duration, err error) {
	m.GeneratorLatency.Observe(float64(elapsed.Milliseconds()))
	if err != nil {
		m.GeneratorErrors.WithLabelValues(provider).Inc()
	}
}

func (m *Metrics) ObserveInteraction(kind, status string) {
	m.Interactions.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) SocketOpened() { m.ActiveSockets.Inc() }

func (m *Metrics) SocketClosed() { m.ActiveSockets.Dec() }

func (m *Metrics) ObserveSocketMessage(direction, kind string) {
	m.WSMessages.WithLabelValues(direction, kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
