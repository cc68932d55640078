package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		30:  "30 мин",
		60:  "1 ч",
		90:  "1 ч 30 мин",
		125: "2 ч 5 мин",
	}
	for minutes, want := range tests {
		assert.Equal(t, want, FormatDuration(minutes))
	}
}

func TestFormatDayLabel(t *testing.T) {
	d := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "Пн 22.12", FormatDayLabel(d))
	assert.Equal(t, "22.12.2025 (Пн)", FormatDateWithWeekday(d))
}

func TestPluralizeAppointments(t *testing.T) {
	tests := map[int]string{
		1:   "запись",
		2:   "записи",
		5:   "записей",
		11:  "записей",
		21:  "запись",
		104: "записи",
		112: "записей",
	}
	for n, want := range tests {
		assert.Equal(t, want, PluralizeAppointments(n), n)
	}
}

func TestStrike(t *testing.T) {
	assert.Equal(t, "0\u03361\u0336", Strike("01"))
	assert.Empty(t, Strike(""))
}

func TestFormatRanges(t *testing.T) {
	assert.Equal(t, "выходной", FormatRanges(nil))
	assert.Equal(t, "09:00-12:00, 14:00-18:00", FormatRanges([]availability.TimeRange{
		{Start: availability.MustTimeOfDay("09:00"), End: availability.MustTimeOfDay("12:00")},
		{Start: availability.MustTimeOfDay("14:00"), End: availability.MustTimeOfDay("18:00")},
	}))
}

func TestFormatAppointmentLine(t *testing.T) {
	a := &model.Appointment{
		ServiceName: "Маникюр",
		Date:        time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local),
		Time:        availability.MustTimeOfDay("09:30"),
		ClientName:  "Ольга",
		Status:      model.AppointmentStatusConfirmed,
	}
	assert.Equal(t, "✅ 22.12 09:30 · Маникюр · Ольга", FormatAppointmentLine(a))
}
