package command

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// commandMetrics holds the Prometheus counters for the command surface.
type commandMetrics struct {
	once sync.Once

	dispatchedTotal *prometheus.CounterVec
	failedTotal     *prometheus.CounterVec
}

var metrics commandMetrics

// init registers the counters on first use. Registration failures are
// ignored so tests creating multiple dispatchers do not panic.
func (m *commandMetrics) init() {
	m.once.Do(func() {
		m.dispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factbot",
			Subsystem: "commands",
			Name:      "dispatched_total",
			Help:      "Commands matched and executed, by command name.",
		}, []string{"command"})

		m.failedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factbot",
			Subsystem: "commands",
			Name:      "failed_total",
			Help:      "Commands that returned an error, by command name.",
		}, []string{"command"})

		for _, c := range []prometheus.Collector{m.dispatchedTotal, m.failedTotal} {
			_ = prometheus.Register(c)
		}
	})
}

func (m *commandMetrics) dispatched(name string) {
	m.init()
	m.dispatchedTotal.WithLabelValues(name).Inc()
}

func (m *commandMetrics) failed(name string) {
	m.init()
	m.failedTotal.WithLabelValues(name).Inc()
}
