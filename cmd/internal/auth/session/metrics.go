package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts session operations. A nil *Metrics records nothing.
type Metrics struct {
	ops         *prometheus.CounterVec
	swept       prometheus.Counter
	sweepErrors prometheus.Counter
}

// NewMetrics registers the session counters on reg. A nil reg builds
// unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bombay",
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Session operations by op and result code.",
		}, []string{"op", "result"}),
		swept: f.NewCounter(prometheus.CounterOpts{
			Namespace: "bombay",
			Subsystem: "session",
			Name:      "swept_total",
			Help:      "Stale sessions deleted by the sweep.",
		}),
		sweepErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "bombay",
			Subsystem: "session",
			Name:      "sweep_errors_total",
			Help:      "Sweeps that failed.",
		}),
	}
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = CodeOf(err)
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *Metrics) sweep(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.sweepErrors.Inc()
		return
	}
	m.swept.Add(float64(n))
}
