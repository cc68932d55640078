package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func reminderAppointment(id int64, date time.Time, at string, wants bool) *model.Appointment {
	return &model.Appointment{
		ID:            id,
		ServiceName:   "Педикюр",
		Date:          date,
		Time:          availability.MustTimeOfDay(at),
		ClientChatID:  100 + id,
		WantsReminder: wants,
		Status:        model.AppointmentStatusPending,
	}
}

func TestReminderService_SendDue(t *testing.T) {
	sunday := mondayDate().AddDate(0, 0, -1)
	appts := newFakeAppointments(
		reminderAppointment(1, mondayDate(), "09:00", true),  // через 23 часа
		reminderAppointment(2, mondayDate(), "11:00", true),  // за горизонтом
		reminderAppointment(3, mondayDate(), "09:30", false), // без напоминания
		reminderAppointment(4, sunday, "09:00", true),        // уже прошла
	)
	notifier := &fakeNotifier{}

	svc := NewReminderService(appts, notifier, 24*time.Hour, nil, zap.NewNop())
	// воскресенье 10:00
	svc.now = func() time.Time { return time.Date(2025, 12, 21, 10, 0, 0, 0, time.Local) }

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(101), notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "«Педикюр» 22.12.2025 в 09:00")
	assert.Contains(t, appts.reminderMark, int64(1))

	// повторный проход не шлёт то же напоминание
	sent, err = svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_FailedDeliveryIsRetried(t *testing.T) {
	appts := newFakeAppointments(reminderAppointment(1, mondayDate(), "09:00", true))
	notifier := &fakeNotifier{err: assert.AnError}

	svc := NewReminderService(appts, notifier, 48*time.Hour, nil, zap.NewNop())
	svc.now = fixedNow

	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, appts.reminderMark)

	notifier.err = nil
	sent, err = svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestReminderService_NoNotifier(t *testing.T) {
	svc := NewReminderService(newFakeAppointments(), nil, time.Hour, nil, zap.NewNop())
	sent, err := svc.SendDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
