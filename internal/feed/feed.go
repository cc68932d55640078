package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix = "booking:feed:"

	TopicSchedule = "schedule"
	TopicServices = "services"
)

// AppointmentsTopic тема изменений записей на конкретную дату
func AppointmentsTopic(date time.Time) string {
	return "appointments:" + availability.FormatDate(date)
}

// Snapshot уведомление об изменении данных.
// Для темы записей Reserved содержит актуальные занятые времена дня.
type Snapshot struct {
	Topic    string    `json:"topic"`
	Date     string    `json:"date,omitempty"`
	Reserved []string  `json:"reserved,omitempty"`
	At       time.Time `json:"at"`
}

// Feed публикует и раздаёт снимки через Redis pub/sub
type Feed struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func New(rdb *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{rdb: rdb, logger: logger}
}

// Publish отправляет снимок всем подписчикам темы
func (f *Feed) Publish(ctx context.Context, snap Snapshot) error {
	if snap.At.IsZero() {
		snap.At = time.Now()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := f.rdb.Publish(ctx, channelPrefix+snap.Topic, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", snap.Topic, err)
	}
	return nil
}

// Subscribe подписывается на темы. Подписку нужно закрыть через Close.
func (f *Feed) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	channels := make([]string, 0, len(topics))
	for _, t := range topics {
		channels = append(channels, channelPrefix+t)
	}

	ps := f.rdb.Subscribe(ctx, channels...)
	// Ждём подтверждения, иначе ранние публикации могут потеряться
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %v: %w", topics, err)
	}

	s := &Subscription{
		ps:     ps,
		ch:     make(chan Snapshot, 16),
		done:   make(chan struct{}),
		logger: f.logger,
	}
	go s.run()
	return s, nil
}

// Subscription активная подписка на темы
type Subscription struct {
	ps     *redis.PubSub
	ch     chan Snapshot
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger
}

// C канал снимков; закрывается после Close
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Close отменяет подписку
func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func (s *Subscription) run() {
	defer close(s.ch)

	msgs := s.ps.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var snap Snapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
				s.logger.Warn("Dropping malformed snapshot",
					zap.String("channel", msg.Channel),
					zap.Error(err))
				continue
			}

			select {
			case s.ch <- snap:
			case <-s.done:
				return
			}
		}
	}
}
