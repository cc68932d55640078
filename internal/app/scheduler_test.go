package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSender struct {
	calls atomic.Int32
	err   error
}

func (c *countingSender) SendDue(context.Context) (int, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	sender := &countingSender{}
	s := NewScheduler(sender, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return sender.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := sender.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, sender.calls.Load())

	// повторная остановка безопасна
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	sender := &countingSender{err: errors.New("db down")}
	s := NewScheduler(sender, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return sender.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
