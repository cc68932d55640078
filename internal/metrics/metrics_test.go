package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAppointment("created")
	m.ObserveAppointment("created")
	m.ObserveAppointment("slot_taken")
	m.ObserveWizard("select_time", false)
	m.ObservePublish("appointments", errors.New("redis down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.appointmentsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appointmentsTotal.WithLabelValues("slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wizardTransitions.WithLabelValues("select_time", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedPublishTotal.WithLabelValues("appointments", "error")))
}

func TestBookingMetrics_NilSafe(t *testing.T) {
	var m *BookingMetrics
	assert.NotPanics(t, func() {
		m.ObserveAppointment("created")
		m.ObserveAvailability("bot", 0.1)
		m.ObserveWizard("confirmed", true)
		m.ObserveReminder("sent")
		m.ObservePublish("schedule", nil)
	})
}
