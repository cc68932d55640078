package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics счётчики и гистограммы процесса записи
type BookingMetrics struct {
	appointmentsTotal   *prometheus.CounterVec
	availabilityLatency *prometheus.HistogramVec
	wizardTransitions   *prometheus.CounterVec
	remindersTotal      *prometheus.CounterVec
	feedPublishTotal    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Appointment creation attempts by outcome",
		}, []string{"outcome"}),
		availabilityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "availability",
			Name:      "compute_seconds",
			Help:      "Latency of loading and computing a day's availability",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Wizard transitions by target step and result",
		}, []string{"step", "result"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Appointment reminders by delivery status",
		}, []string{"status"}),
		feedPublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "feed",
			Name:      "publish_total",
			Help:      "Change feed publications by topic kind and status",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.appointmentsTotal,
		m.availabilityLatency,
		m.wizardTransitions,
		m.remindersTotal,
		m.feedPublishTotal,
	)
	return m
}

func (m *BookingMetrics) ObserveAppointment(outcome string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveAvailability(source string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.WithLabelValues(source).Observe(seconds)
}

func (m *BookingMetrics) ObserveWizard(step string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.wizardTransitions.WithLabelValues(step, result).Inc()
}

func (m *BookingMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObservePublish(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.feedPublishTotal.WithLabelValues(kind, status).Inc()
}
