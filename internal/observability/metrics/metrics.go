// Package metrics exposes Prometheus instrumentation for consultation flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConsultMetrics exposes counters/histograms for consultation operations.
type ConsultMetrics struct {
	operationsTotal *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	sanitizedTotal  prometheus.Counter
}

// NewConsultMetrics registers and returns the consultation metrics. A nil
// registerer falls back to the default registry.
func NewConsultMetrics(reg prometheus.Registerer) *ConsultMetrics {
	m := &ConsultMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consultsim",
			Subsystem: "consultation",
			Name:      "operations_total",
			Help:      "Total consultation operations by outcome",
		}, []string{"operation", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "consultsim",
			Subsystem: "consultation",
			Name:      "llm_latency_seconds",
			Help:      "Latency of text-generation calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		sanitizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consultsim",
			Subsystem: "consultation",
			Name:      "sanitized_inputs_total",
			Help:      "Total user inputs replaced by the clarification prompt",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.llmLatency, m.sanitizedTotal)
	return m
}

// ObserveOperation records one consultation operation and its outcome.
func (m *ConsultMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveLLMLatency records the latency of one text-generation call.
func (m *ConsultMetrics) ObserveLLMLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveSanitizedInput records one substituted user input.
func (m *ConsultMetrics) ObserveSanitizedInput() {
	if m == nil {
		return
	}
	m.sanitizedTotal.Inc()
}
