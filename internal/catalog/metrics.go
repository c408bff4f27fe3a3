package catalog

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts catalog activity.
type Metrics struct {
	decodeFailures prometheus.Counter
	writes         *prometheus.CounterVec
	hookFailures   prometheus.Counter
}

// NewMetrics creates the catalog counters and registers them with reg when
// it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brewbook",
			Subsystem: "catalog",
			Name:      "decode_failures_total",
			Help:      "Stored recipe documents that could not be decoded.",
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewbook",
			Subsystem: "catalog",
			Name:      "writes_total",
			Help:      "Recipe writes and deletes by operation and result.",
		}, []string{"op", "result"}),
		hookFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brewbook",
			Subsystem: "catalog",
			Name:      "invalidation_failures_total",
			Help:      "Invalidator hooks that returned an error.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.decodeFailures, m.writes, m.hookFailures)
	}
	return m
}

func (m *Metrics) decodeFailed() {
	if m != nil {
		m.decodeFailures.Inc()
	}
}

func (m *Metrics) wrote(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(op, result).Inc()
}

func (m *Metrics) hookFailed() {
	if m != nil {
		m.hookFailures.Inc()
	}
}
