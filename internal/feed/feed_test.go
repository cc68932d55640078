package feed

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFeed(t *testing.T) (*Feed, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, zap.NewNop()), mr
}

func receive(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestFeed_PublishSubscribe(t *testing.T) {
	f, _ := newFeed(t)
	ctx := context.Background()

	day := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
	sub, err := f.Subscribe(ctx, AppointmentsTopic(day), TopicSchedule)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, f.Publish(ctx, Snapshot{
		Topic:    AppointmentsTopic(day),
		Date:     "2025-12-22",
		Reserved: []string{"09:00"},
	}))

	snap := receive(t, sub)
	assert.Equal(t, "appointments:2025-12-22", snap.Topic)
	assert.Equal(t, []string{"09:00"}, snap.Reserved)
	assert.False(t, snap.At.IsZero())

	require.NoError(t, f.Publish(ctx, Snapshot{Topic: TopicSchedule}))
	assert.Equal(t, TopicSchedule, receive(t, sub).Topic)
}

func TestFeed_OtherTopicsAreNotDelivered(t *testing.T) {
	f, _ := newFeed(t)
	ctx := context.Background()

	sub, err := f.Subscribe(ctx, "appointments:2025-12-22")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, f.Publish(ctx, Snapshot{Topic: "appointments:2025-12-23"}))
	require.NoError(t, f.Publish(ctx, Snapshot{Topic: "appointments:2025-12-22"}))

	assert.Equal(t, "appointments:2025-12-22", receive(t, sub).Topic)
}

func TestSubscription_CloseEndsStream(t *testing.T) {
	f, _ := newFeed(t)

	sub, err := f.Subscribe(context.Background(), TopicServices)
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	// повторное закрытие безопасно
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.C():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed")
	}
}
