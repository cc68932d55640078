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

func storedAppointment(id int64, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:           id,
		ServiceName:  "Маникюр",
		Date:         mondayDate(),
		Time:         availability.MustTimeOfDay("11:00"),
		ClientName:   "Ольга",
		ClientChatID: 77,
		Status:       status,
	}
}

func newAdminService(appts *fakeAppointments) (*AdminService, *fakeDays, *fakeNotifier) {
	days := &fakeDays{}
	notifier := &fakeNotifier{}
	svc := NewAdminService(appts, days, notifier, zap.NewNop())
	svc.now = fixedNow
	return svc, days, notifier
}

func TestRangeBounds(t *testing.T) {
	// 2025-12-24 среда
	now := time.Date(2025, 12, 24, 15, 0, 0, 0, time.Local)

	tests := []struct {
		period   model.DateRange
		from, to string
	}{
		{model.RangeToday, "2025-12-24", "2025-12-25"},
		{model.RangeWeek, "2025-12-22", "2025-12-29"},
		{model.RangeMonth, "2025-12-01", "2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			from, to := RangeBounds(tt.period, now)
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.Equal(t, tt.from, availability.FormatDate(*from))
			assert.Equal(t, tt.to, availability.FormatDate(*to))
		})
	}

	from, to := RangeBounds(model.RangeAll, now)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestRangeBounds_WeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2025, 12, 28, 9, 0, 0, 0, time.Local)
	from, to := RangeBounds(model.RangeWeek, sunday)
	assert.Equal(t, "2025-12-22", availability.FormatDate(*from))
	assert.Equal(t, "2025-12-29", availability.FormatDate(*to))
}

func TestAdminService_ListAppointmentsAppliesPeriod(t *testing.T) {
	appts := newFakeAppointments(storedAppointment(1, model.AppointmentStatusPending))
	svc, _, _ := newAdminService(appts)

	list, err := svc.ListAppointments(context.Background(), model.AppointmentFilter{Search: "оль"}, model.RangeToday)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NotNil(t, appts.lastFilter.From)
	assert.Equal(t, "2025-12-20", availability.FormatDate(*appts.lastFilter.From))
	assert.Equal(t, "оль", appts.lastFilter.Search)
}

func TestAdminService_Confirm(t *testing.T) {
	appts := newFakeAppointments(storedAppointment(1, model.AppointmentStatusPending))
	svc, days, notifier := newAdminService(appts)

	a, err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, a.Status)
	assert.Equal(t, model.AppointmentStatusConfirmed, appts.byID[1].Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(77), notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "подтверждена")
	assert.Empty(t, days.dates)

	// повторное подтверждение ничего не меняет
	_, err = svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1)
}

func TestAdminService_ConfirmCancelledIsRejected(t *testing.T) {
	appts := newFakeAppointments(storedAppointment(1, model.AppointmentStatusCancelled))
	svc, _, _ := newAdminService(appts)

	_, err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminService_CancelFreesSlot(t *testing.T) {
	appts := newFakeAppointments(storedAppointment(1, model.AppointmentStatusConfirmed))
	svc, days, notifier := newAdminService(appts)

	a, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, a.Status)
	assert.Equal(t, []string{"2025-12-22"}, days.dates)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].text, "отменена")
}

func TestAdminService_Delete(t *testing.T) {
	appts := newFakeAppointments(
		storedAppointment(1, model.AppointmentStatusPending),
		storedAppointment(2, model.AppointmentStatusCancelled),
	)
	svc, days, notifier := newAdminService(appts)

	require.NoError(t, svc.Delete(context.Background(), 1))
	require.NoError(t, svc.Delete(context.Background(), 2))

	// отменённая запись слот не занимала
	assert.Equal(t, []string{"2025-12-22"}, days.dates)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, appts.byID)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrAppointmentNotFound)
}

func TestAdminService_NotifyFailureDoesNotFailAction(t *testing.T) {
	appts := newFakeAppointments(storedAppointment(1, model.AppointmentStatusPending))
	svc, _, notifier := newAdminService(appts)
	notifier.err = assert.AnError

	_, err := svc.Confirm(context.Background(), 1)
	assert.NoError(t, err)
}

func TestAdminService_WeekSkipsCancelled(t *testing.T) {
	appts := newFakeAppointments(
		storedAppointment(1, model.AppointmentStatusPending),
		storedAppointment(2, model.AppointmentStatusCancelled),
	)
	svc, _, _ := newAdminService(appts)

	week, err := svc.Week(context.Background(), mondayDate())
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, int64(1), week[0].ID)

	assert.Equal(t, "2025-12-29", availability.FormatDate(*appts.lastFilter.To))
}
