package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StateAndData(t *testing.T) {
	sm := NewManager()

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateEnteringName)
	sm.SetData(1, "service_id", int64(7))
	assert.Equal(t, StateEnteringName, sm.GetState(1))

	v, ok := sm.GetData(1, "service_id")
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	all := sm.GetAllData(1)
	all["service_id"] = int64(8)
	v, _ = sm.GetData(1, "service_id")
	assert.Equal(t, int64(7), v, "GetAllData returns a copy")

	sm.ClearState(1)
	assert.Equal(t, StateNone, sm.GetState(1))
	_, ok = sm.GetData(1, "service_id")
	assert.False(t, ok)
}

func TestManager_ResetDialogKeepsData(t *testing.T) {
	sm := NewManager()
	sm.SetData(1, "filter", "x")
	sm.SetState(1, StateFilterSearch)

	sm.ResetDialog(1)
	assert.Equal(t, StateNone, sm.GetState(1))
	v, ok := sm.GetData(1, "filter")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestManager_SetStateNoneOnUnknownUser(t *testing.T) {
	sm := NewManager()
	sm.SetState(5, StateNone)
	assert.Nil(t, sm.GetAllData(5))
}

func TestManager_WizardPerUser(t *testing.T) {
	sm := NewManager()

	w1 := sm.Wizard(1)
	assert.Same(t, w1, sm.Wizard(1))
	assert.NotSame(t, w1, sm.Wizard(2))
	assert.Equal(t, wizard.StepSelectService, w1.Step())

	// диалог и мастер живут независимо
	sm.ClearState(1)
	assert.Same(t, w1, sm.Wizard(1))

	assert.True(t, sm.DropWizard(1))
	assert.NotSame(t, w1, sm.Wizard(1))

	assert.True(t, sm.DropWizard(99), "nothing to drop")
}

type blockingWriter struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingWriter) CreateAppointment(context.Context, *model.Appointment) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestManager_DropWizardKeepsSubmitting(t *testing.T) {
	sm := NewManager()
	w := sm.Wizard(1)

	schedule := availability.NewBusinessSchedule(30)
	schedule.Weekly[time.Monday] = []availability.TimeRange{{
		Start: availability.MustTimeOfDay("09:00"),
		End:   availability.MustTimeOfDay("10:00"),
	}}
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.Local)
	day := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)

	require.NoError(t, w.SelectService(model.Service{ID: 1, Name: "Corte", Duration: 30}))
	ticket, err := w.SelectDate(day, schedule, now)
	require.NoError(t, err)
	require.True(t, w.ApplyDay(ticket, availability.DaySlots(schedule, day, availability.NewTimeSet(), now)))
	require.NoError(t, w.SelectTime(availability.MustTimeOfDay("09:00")))
	require.NoError(t, w.SetName("Ana Pérez"))
	require.NoError(t, w.SetPhone("+54 9 11 5555-1234"))

	writer := &blockingWriter{entered: make(chan struct{}), release: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), writer)
		done <- err
	}()
	<-writer.entered

	// пока запись отправляется, мастер нельзя выбросить
	assert.False(t, sm.DropWizard(1))
	assert.Same(t, w, sm.Wizard(1))

	close(writer.release)
	require.NoError(t, <-done)

	assert.True(t, sm.DropWizard(1))
	fresh := sm.Wizard(1)
	assert.NotSame(t, w, fresh)
	assert.Equal(t, wizard.StepSelectService, fresh.Step())
	assert.Equal(t, wizard.StepConfirmed, w.Step())
}

func TestManager_WizardConcurrentCreate(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	got := make([]*wizard.Wizard, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = sm.Wizard(42)
		}(i)
	}
	wg.Wait()

	for _, w := range got {
		assert.Same(t, got[0], w)
	}
}

func TestAdapter(t *testing.T) {
	sm := NewManager()
	var a callbacktypes.StateManager = NewAdapter(sm)

	a.SetState(3, callbacktypes.UserState(StateHoursInput))
	assert.Equal(t, StateHoursInput, sm.GetState(3))
	assert.Equal(t, callbacktypes.UserState(StateHoursInput), a.GetState(3))
	assert.Same(t, sm.Wizard(3), a.Wizard(3))
}
