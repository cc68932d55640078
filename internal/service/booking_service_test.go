package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingService(t *testing.T, store *fakeScheduleStore) (*BookingService, pgxmock.PgxPoolIface, *fakePublisher) {
	t.Helper()
	mock := newMock(t)
	pub := &fakePublisher{}
	svc := NewBookingService(mock, newScheduleService(store, nil), pub, nil, zap.NewNop())
	svc.now = fixedNow
	return svc, mock, pub
}

func newAppointment(at string) *model.Appointment {
	serviceID := int64(1)
	return &model.Appointment{
		ServiceID:       &serviceID,
		ServiceName:     "Стрижка",
		ServiceDuration: 30,
		Date:            mondayDate(),
		Time:            availability.MustTimeOfDay(at),
		ClientName:      "Анна",
		ClientPhone:     "+79991234567",
		ClientChatID:    42,
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestBookingService_DayAvailability(t *testing.T) {
	svc, mock, _ := newBookingService(t, mondayMornings())

	mock.ExpectQuery("SELECT time").
		WithArgs("2025-12-22").
		WillReturnRows(pgxmock.NewRows([]string{"time"}).AddRow("09:00"))

	day, err := svc.DayAvailability(context.Background(), mondayDate())
	require.NoError(t, err)

	require.Len(t, day.Slots, 6)
	assert.True(t, day.Bookable)
	assert.Equal(t, availability.Slot{Time: availability.MustTimeOfDay("09:00"), Reserved: true}, day.Slots[0])
	assert.False(t, day.Slots[1].Reserved)
}

func TestBookingService_DayAvailabilityClosedDaySkipsQuery(t *testing.T) {
	svc, _, _ := newBookingService(t, mondayMornings())

	// вторник закрыт, запрос к базе не нужен
	day, err := svc.DayAvailability(context.Background(), mondayDate().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, day.Bookable)
	assert.Empty(t, day.Slots)
}

func TestBookingService_DayAvailabilityWithoutSchedule(t *testing.T) {
	svc, _, _ := newBookingService(t, &fakeScheduleStore{})

	day, err := svc.DayAvailability(context.Background(), mondayDate())
	require.NoError(t, err)
	assert.False(t, day.Bookable)
}

func TestBookingService_Calendar(t *testing.T) {
	store := mondayMornings()
	store.doc.Blocked = []string{"2025-12-29"}
	svc, _, _ := newBookingService(t, store)

	days, err := svc.Calendar(context.Background(), fixedNow(), 14)
	require.NoError(t, err)
	require.Len(t, days, 14)

	var bookable []string
	for _, d := range days {
		if d.Bookable {
			bookable = append(bookable, availability.FormatDate(d.Date))
		}
	}
	assert.Equal(t, []string{"2025-12-22"}, bookable)
}

func TestBookingService_CreateAppointment(t *testing.T) {
	svc, mock, pub := newBookingService(t, mondayMornings())
	created := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("appointments:2025-12-22").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT time").
		WithArgs("2025-12-22").
		WillReturnRows(pgxmock.NewRows([]string{"time"}).AddRow("10:00"))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(anyArgs(10)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), created))
	mock.ExpectCommit()

	a := newAppointment("09:30")
	require.NoError(t, svc.CreateAppointment(context.Background(), a))

	assert.Equal(t, int64(5), a.ID)
	assert.Equal(t, model.AppointmentStatusPending, a.Status)

	require.Len(t, pub.snaps, 1)
	assert.Equal(t, feed.AppointmentsTopic(mondayDate()), pub.snaps[0].Topic)
	assert.Equal(t, []string{"09:30", "10:00"}, pub.snaps[0].Reserved)
}

func TestBookingService_CreateAppointmentSlotTaken(t *testing.T) {
	svc, mock, pub := newBookingService(t, mondayMornings())

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("appointments:2025-12-22").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT time").
		WithArgs("2025-12-22").
		WillReturnRows(pgxmock.NewRows([]string{"time"}).AddRow("09:30"))
	mock.ExpectRollback()

	err := svc.CreateAppointment(context.Background(), newAppointment("09:30"))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
	assert.Empty(t, pub.snaps)
}

func TestBookingService_CreateAppointmentRejectsInvalidSlot(t *testing.T) {
	svc, _, _ := newBookingService(t, mondayMornings())

	tests := []struct {
		name string
		mut  func(a *model.Appointment)
		want error
	}{
		{"closed weekday", func(a *model.Appointment) { a.Date = a.Date.AddDate(0, 0, 1) }, wizard.ErrDateNotBookable},
		{"past date", func(a *model.Appointment) { a.Date = a.Date.AddDate(0, 0, -7) }, wizard.ErrDateNotBookable},
		{"off grid", func(a *model.Appointment) { a.Time = availability.MustTimeOfDay("09:15") }, wizard.ErrSlotUnavailable},
		{"does not fit", func(a *model.Appointment) { a.Time = availability.MustTimeOfDay("12:00") }, wizard.ErrSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAppointment("09:30")
			tt.mut(a)
			assert.ErrorIs(t, svc.CreateAppointment(context.Background(), a), tt.want)
		})
	}
}

func TestBookingService_ListForChat(t *testing.T) {
	svc, mock, _ := newBookingService(t, mondayMornings())

	mock.ExpectQuery("WHERE client_chat_id = \\$1 AND date >= \\$2::date").
		WithArgs(int64(42), "2025-12-20").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "service_id", "service_name", "service_duration", "date", "time",
			"client_name", "client_phone", "client_chat_id", "wants_reminder", "reminder_sent_at", "status", "created_at",
		}))

	appts, err := svc.ListForChat(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, appts)
}
