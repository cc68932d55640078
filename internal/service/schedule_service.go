package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"go.uber.org/zap"
)

type scheduleStore interface {
	Get(ctx context.Context) (*availability.ScheduleDocument, error)
	Save(ctx context.Context, doc *availability.ScheduleDocument) error
}

type scheduleCache interface {
	Schedule(ctx context.Context) (*availability.ScheduleDocument, bool, error)
	SetSchedule(ctx context.Context, doc *availability.ScheduleDocument) error
	FillSchedule(ctx context.Context, doc *availability.ScheduleDocument) error
	InvalidateSchedule(ctx context.Context) error
}

// Publisher рассылает уведомления об изменениях
type Publisher interface {
	Publish(ctx context.Context, snap feed.Snapshot) error
}

type ScheduleService struct {
	repo        scheduleStore
	cache       scheduleCache
	publisher   Publisher
	metrics     *metrics.BookingMetrics
	slotMinutes int
	logger      *zap.Logger

	// сериализует правки администратора: документ перезаписывается целиком
	mu sync.Mutex
}

func NewScheduleService(
	repo scheduleStore,
	cache scheduleCache,
	publisher Publisher,
	m *metrics.BookingMetrics,
	slotMinutes int,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		repo:        repo,
		cache:       cache,
		publisher:   publisher,
		metrics:     m,
		slotMinutes: slotMinutes,
		logger:      logger,
	}
}

// Get возвращает расписание бизнеса; nil, если оно ещё не настроено
func (s *ScheduleService) Get(ctx context.Context) (*availability.BusinessSchedule, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return doc.ToSchedule(s.slotMinutes), nil
}

// Editable возвращает расписание для редактирования, создавая пустое при первом обращении
func (s *ScheduleService) Editable(ctx context.Context) (*availability.BusinessSchedule, error) {
	schedule, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		return schedule, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	empty := availability.NewBusinessSchedule(s.slotMinutes)
	if err := s.save(ctx, empty); err != nil {
		return nil, err
	}
	s.logger.Info("Created empty schedule")
	return empty, nil
}

// SetDayHours задаёт интервалы работы для дня недели.
// Интервалы сортируются, пересекающиеся и перевёрнутые отклоняются.
func (s *ScheduleService) SetDayHours(ctx context.Context, wd time.Weekday, ranges []availability.TimeRange) error {
	normalized, err := availability.NormalizeRanges(ranges)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	if len(normalized) == 0 {
		return s.CloseDay(ctx, wd)
	}

	return s.update(ctx, func(schedule *availability.BusinessSchedule) {
		schedule.Weekly[wd] = normalized
	})
}

// CloseDay делает день недели нерабочим
func (s *ScheduleService) CloseDay(ctx context.Context, wd time.Weekday) error {
	return s.update(ctx, func(schedule *availability.BusinessSchedule) {
		delete(schedule.Weekly, wd)
	})
}

// BlockDate добавляет выходной день
func (s *ScheduleService) BlockDate(ctx context.Context, date time.Time) error {
	return s.update(ctx, func(schedule *availability.BusinessSchedule) {
		schedule.Blocked[availability.FormatDate(date)] = struct{}{}
	})
}

// UnblockDate убирает выходной день
func (s *ScheduleService) UnblockDate(ctx context.Context, date time.Time) error {
	return s.update(ctx, func(schedule *availability.BusinessSchedule) {
		delete(schedule.Blocked, availability.FormatDate(date))
	})
}

func (s *ScheduleService) update(ctx context.Context, mutate func(*availability.BusinessSchedule)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Читаем мимо кэша: правка должна опираться на последнюю сохранённую версию
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get schedule: %w", err)
	}
	schedule := doc.ToSchedule(s.slotMinutes)

	mutate(schedule)
	return s.save(ctx, schedule)
}

func (s *ScheduleService) save(ctx context.Context, schedule *availability.BusinessSchedule) error {
	doc := availability.DocumentFromSchedule(schedule)
	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}

	// Кладём новый документ поверх старого: читатель, который успел взять
	// из базы прежнюю версию, заполняет кэш только при пустом ключе
	if s.cache != nil {
		if err := s.cache.SetSchedule(ctx, doc); err != nil {
			s.logger.Warn("Failed to update schedule cache", zap.Error(err))
			if err := s.cache.InvalidateSchedule(ctx); err != nil {
				s.logger.Warn("Failed to invalidate schedule cache", zap.Error(err))
			}
		}
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, feed.Snapshot{Topic: feed.TopicSchedule})
		s.metrics.ObservePublish(feed.TopicSchedule, err)
		if err != nil {
			s.logger.Warn("Failed to publish schedule change", zap.Error(err))
		}
	}

	s.logger.Info("Schedule saved",
		zap.Int("open_weekdays", len(schedule.Weekly)),
		zap.Int("blocked_dates", len(schedule.Blocked)))
	return nil
}

func (s *ScheduleService) load(ctx context.Context) (*availability.ScheduleDocument, error) {
	if s.cache != nil {
		doc, ok, err := s.cache.Schedule(ctx)
		if err != nil {
			s.logger.Warn("Schedule cache read failed", zap.Error(err))
		}
		if ok {
			return doc, nil
		}
	}

	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	if doc != nil && s.cache != nil {
		if err := s.cache.FillSchedule(ctx, doc); err != nil {
			s.logger.Warn("Failed to cache schedule", zap.Error(err))
		}
	}
	return doc, nil
}
