package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// 2025-12-20 суббота
func fixedNow() time.Time {
	return time.Date(2025, 12, 20, 10, 0, 0, 0, time.Local)
}

func mondayDate() time.Time {
	return time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
}

type fakeScheduleStore struct {
	mu    sync.Mutex
	doc   *availability.ScheduleDocument
	saves int
}

func (f *fakeScheduleStore) Get(context.Context) (*availability.ScheduleDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, nil
}

func (f *fakeScheduleStore) Save(_ context.Context, doc *availability.ScheduleDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = doc
	f.saves++
	return nil
}

func mondayMornings() *fakeScheduleStore {
	return &fakeScheduleStore{doc: &availability.ScheduleDocument{
		Days: map[string][]availability.RangeDocument{
			"lunes": {{Start: "09:00", End: "12:00"}},
		},
	}}
}

type fakePublisher struct {
	mu    sync.Mutex
	snaps []feed.Snapshot
}

func (f *fakePublisher) Publish(_ context.Context, snap feed.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, snap)
	return nil
}

func (f *fakePublisher) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var topics []string
	for _, s := range f.snaps {
		topics = append(topics, s.Topic)
	}
	return topics
}

type notification struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (f *fakeNotifier) NotifyClient(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notification{chatID: chatID, text: text})
	return nil
}

type fakeAppointments struct {
	mu           sync.Mutex
	byID         map[int64]*model.Appointment
	lastFilter   model.AppointmentFilter
	reminderMark map[int64]time.Time
}

func newFakeAppointments(appts ...*model.Appointment) *fakeAppointments {
	f := &fakeAppointments{
		byID:         make(map[int64]*model.Appointment),
		reminderMark: make(map[int64]time.Time),
	}
	for _, a := range appts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointments) List(_ context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []*model.Appointment
	for _, a := range f.byID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointments) DueReminders(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.byID {
		if !a.WantsReminder || a.ReminderSentAt != nil || !a.IsActive() {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAppointments) MarkReminderSent(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ReminderSentAt = &at
	f.reminderMark[id] = at
	return nil
}

type fakeDays struct {
	mu    sync.Mutex
	dates []string
}

func (f *fakeDays) PublishDay(_ context.Context, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, availability.FormatDate(date))
}

func newScheduleService(store *fakeScheduleStore, pub Publisher) *ScheduleService {
	return NewScheduleService(store, nil, pub, nil, 30, zap.NewNop())
}
