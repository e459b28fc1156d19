package booking

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for booking outcomes. A nil *Metrics is valid and
// records nothing, so wiring it up is optional in workers and tests.
type Metrics struct {
	outcomes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "outcomes_total",
			Help:      "Booking operations by outcome (created, rescheduled, conflict, lock_busy, cancelled, completed, ...)",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomes)
	return m
}

func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
