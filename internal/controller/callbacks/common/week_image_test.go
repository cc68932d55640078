package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agendaSchedule() *availability.BusinessSchedule {
	s := availability.NewBusinessSchedule(30)
	s.Weekly[time.Monday] = []availability.TimeRange{
		{Start: availability.MustTimeOfDay("10:00"), End: availability.MustTimeOfDay("13:00")},
		{Start: availability.MustTimeOfDay("14:00"), End: availability.MustTimeOfDay("17:30")},
	}
	s.Weekly[time.Wednesday] = []availability.TimeRange{
		{Start: availability.MustTimeOfDay("12:00"), End: availability.MustTimeOfDay("20:00")},
	}
	return s
}

func TestNormalizeToWeekBounds(t *testing.T) {
	sunday := time.Date(2025, 12, 28, 15, 0, 0, 0, time.Local)
	week := normalizeToWeekBounds(sunday)
	assert.Equal(t, "2025-12-22", availability.FormatDate(week.start))
	assert.Equal(t, "2025-12-28", availability.FormatDate(week.end))
}

func TestCalculateHourRange(t *testing.T) {
	week := normalizeToWeekBounds(time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local))

	hours := calculateHourRange(week, agendaSchedule(), nil)
	assert.Equal(t, hourRange{start: 9, end: 21, total: 12}, hours)

	// запись после закрытия расширяет сетку
	late := &model.Appointment{
		Date:            time.Date(2025, 12, 24, 0, 0, 0, 0, time.Local),
		Time:            availability.MustTimeOfDay("21:00"),
		ServiceDuration: 90,
		Status:          model.AppointmentStatusPending,
	}
	hours = calculateHourRange(week, agendaSchedule(), []*model.Appointment{late})
	assert.Equal(t, 24, hours.end)

	hours = calculateHourRange(week, nil, nil)
	assert.Equal(t, hourRange{start: 8, end: 19, total: 11}, hours)
}

func TestGenerateWeekImage(t *testing.T) {
	monday := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
	schedule := agendaSchedule()
	schedule.Blocked[availability.FormatDate(monday.AddDate(0, 0, 2))] = struct{}{}

	data, err := GenerateWeekImage(AgendaWeek{
		Start:    monday.AddDate(0, 0, 3),
		Schedule: schedule,
		Appointments: []*model.Appointment{
			{Date: monday, Time: availability.MustTimeOfDay("10:00"), ServiceDuration: 60, ClientName: "Ольга Владимировна", Status: model.AppointmentStatusConfirmed},
			{Date: monday, Time: availability.MustTimeOfDay("14:30"), ClientName: "Анна", Status: model.AppointmentStatusPending},
			{Date: monday, Time: availability.MustTimeOfDay("15:00"), ClientName: "Отменила", Status: model.AppointmentStatusCancelled},
		},
		Now: monday.Add(11 * time.Hour),
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Анна", truncate("Анна", 16))
	assert.Equal(t, "Ольга Владимиро…", truncate("Ольга Владимировна", 16))
}
