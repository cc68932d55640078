package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ranges(pairs ...string) []availability.TimeRange {
	var out []availability.TimeRange
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, availability.TimeRange{
			Start: availability.MustTimeOfDay(pairs[i]),
			End:   availability.MustTimeOfDay(pairs[i+1]),
		})
	}
	return out
}

func TestScheduleService_EditableCreatesEmptySchedule(t *testing.T) {
	store := &fakeScheduleStore{}
	pub := &fakePublisher{}
	svc := newScheduleService(store, pub)

	schedule, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, schedule)

	schedule, err = svc.Editable(context.Background())
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Empty(t, schedule.Weekly)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{feed.TopicSchedule}, pub.topics())
}

func TestScheduleService_SetDayHoursSortsRanges(t *testing.T) {
	store := &fakeScheduleStore{}
	svc := newScheduleService(store, nil)

	err := svc.SetDayHours(context.Background(), time.Monday, ranges("14:00", "18:00", "09:00", "12:00"))
	require.NoError(t, err)

	schedule, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ranges("09:00", "12:00", "14:00", "18:00"), schedule.Weekly[time.Monday])
	assert.Equal(t, []availability.RangeDocument{{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}},
		store.doc.Days["lunes"])
}

func TestScheduleService_SetDayHoursRejectsOverlap(t *testing.T) {
	store := mondayMornings()
	svc := newScheduleService(store, nil)

	err := svc.SetDayHours(context.Background(), time.Monday, ranges("09:00", "12:00", "11:00", "13:00"))
	assert.ErrorIs(t, err, ErrInvalidHours)

	err = svc.SetDayHours(context.Background(), time.Monday, ranges("12:00", "09:00"))
	assert.ErrorIs(t, err, ErrInvalidHours)
	assert.Zero(t, store.saves)
}

func TestScheduleService_CloseDayAndBlockedDates(t *testing.T) {
	store := mondayMornings()
	svc := newScheduleService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.BlockDate(ctx, time.Date(2025, 12, 25, 0, 0, 0, 0, time.Local)))
	require.NoError(t, svc.BlockDate(ctx, time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local)))
	require.NoError(t, svc.UnblockDate(ctx, time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, []string{"2025-12-25"}, store.doc.Blocked)

	require.NoError(t, svc.CloseDay(ctx, time.Monday))
	schedule, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, availability.IsDateBookable(mondayDate(), schedule, fixedNow()))
}

func TestScheduleService_ReadsThroughCacheAndWritesThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := mondayMornings()
	svc := NewScheduleService(store, cache.New(rdb, time.Minute), nil, nil, 30, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	// документ из кэша переживает изменение хранилища в обход сервиса
	store.doc = nil
	schedule, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, schedule.Weekly, 1)

	require.NoError(t, svc.SetDayHours(ctx, time.Friday, ranges("10:00", "16:00")))
	schedule, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, schedule.Weekly, 1)
	assert.Contains(t, schedule.Weekly, time.Friday)
}

func TestScheduleService_CacheDownFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewScheduleService(mondayMornings(), cache.New(rdb, time.Minute), nil, nil, 30, zap.NewNop())

	schedule, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Contains(t, schedule.Weekly, time.Monday)
}

// gatedStore задерживает первое чтение, чтобы правка расписания успела
// пройти между чтением из базы и заполнением кэша
type gatedStore struct {
	*fakeScheduleStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context) (*availability.ScheduleDocument, error) {
	doc, err := g.fakeScheduleStore.Get(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return doc, err
}

func TestScheduleService_SlowReaderDoesNotCacheStaleDocument(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := &gatedStore{
		fakeScheduleStore: mondayMornings(),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	svc := NewScheduleService(store, cache.New(rdb, time.Minute), nil, nil, 30, zap.NewNop())
	ctx := context.Background()

	readerDone := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx)
		readerDone <- err
	}()
	<-store.entered

	// читатель держит старую версию, а администратор уже сохранил новую
	require.NoError(t, svc.SetDayHours(ctx, time.Friday, ranges("10:00", "16:00")))
	close(store.release)
	require.NoError(t, <-readerDone)

	schedule, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Contains(t, schedule.Weekly, time.Friday)
	assert.Contains(t, schedule.Weekly, time.Monday)
}
