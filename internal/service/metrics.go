package service

import (
	"strconv"

	"tamper_monitor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "tamper"

// statusOther buckets free-text statuses so label cardinality stays bounded.
const statusOther = "OTHER"

// Metrics holds the Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	events      *prometheus.CounterVec
	historySize prometheus.Gauge
	simulation  *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Events added to the history, by status and source.",
		}, []string{"status", "source"}),
		historySize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "history_size",
			Help:      "Number of events currently kept in the history.",
		}),
		simulation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "simulation_transitions_total",
			Help:      "Simulation start/stop transitions.",
		}, []string{"running"}),
	}
}

func (m *Metrics) EventAdded(status, source string) {
	if m == nil {
		return
	}
	switch status {
	case tamper_monitor.StatusOK, tamper_monitor.StatusWarn, tamper_monitor.StatusTamper:
	default:
		status = statusOther
	}
	m.events.WithLabelValues(status, source).Inc()
}

func (m *Metrics) HistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}

func (m *Metrics) SimulationTransition(running bool) {
	if m == nil {
		return
	}
	m.simulation.WithLabelValues(strconv.FormatBool(running)).Inc()
}
