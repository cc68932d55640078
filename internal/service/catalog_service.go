package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultServiceDuration = 30
	MinServiceDuration     = 5
	MaxServiceDuration     = 480
	ServiceDurationStep    = 5

	maxServiceNameLen = 60
)

type serviceStore interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id int64) error
}

type servicesCache interface {
	Services(ctx context.Context) ([]*model.Service, bool, error)
	SetServices(ctx context.Context, services []*model.Service) error
	FillServices(ctx context.Context, services []*model.Service) error
	InvalidateServices(ctx context.Context) error
}

type CatalogService struct {
	repo      serviceStore
	cache     servicesCache
	publisher Publisher
	metrics   *metrics.BookingMetrics
	logger    *zap.Logger
}

func NewCatalogService(
	repo serviceStore,
	cache servicesCache,
	publisher Publisher,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// List возвращает каталог услуг, по возможности из кэша
func (s *CatalogService) List(ctx context.Context) ([]*model.Service, error) {
	if s.cache != nil {
		services, ok, err := s.cache.Services(ctx)
		if err != nil {
			s.logger.Warn("Services cache read failed", zap.Error(err))
		}
		if ok {
			return services, nil
		}
	}

	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.FillServices(ctx, services); err != nil {
			s.logger.Warn("Failed to cache services", zap.Error(err))
		}
	}
	return services, nil
}

// Get получает услугу по ID
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// Create добавляет услугу в каталог
func (s *CatalogService) Create(ctx context.Context, name string, duration int, imageURL string) (*model.Service, error) {
	svc, err := newService(name, duration, imageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("Service created",
		zap.Int64("service_id", svc.ID),
		zap.String("name", svc.Name),
		zap.Int("duration", svc.Duration))

	s.changed(ctx)
	return svc, nil
}

// Update меняет услугу. Уже созданные записи сохраняют прежние название и длительность.
func (s *CatalogService) Update(ctx context.Context, id int64, name string, duration int, imageURL string) (*model.Service, error) {
	svc, err := newService(name, duration, imageURL)
	if err != nil {
		return nil, err
	}
	svc.ID = id

	if err := s.repo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.logger.Info("Service updated", zap.Int64("service_id", id), zap.String("name", svc.Name))

	s.changed(ctx)
	return svc, nil
}

// Delete удаляет услугу из каталога
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("delete service: %w", err)
	}

	s.logger.Info("Service deleted", zap.Int64("service_id", id))

	s.changed(ctx)
	return nil
}

func (s *CatalogService) changed(ctx context.Context) {
	if s.cache != nil {
		s.refreshCache(ctx)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, feed.Snapshot{Topic: feed.TopicServices})
		s.metrics.ObservePublish(feed.TopicServices, err)
		if err != nil {
			s.logger.Warn("Failed to publish services change", zap.Error(err))
		}
	}
}

// refreshCache перечитывает каталог после правки и перезаписывает кэш.
// Если перечитать не вышло, ключ удаляется.
func (s *CatalogService) refreshCache(ctx context.Context) {
	services, err := s.repo.List(ctx)
	if err == nil {
		err = s.cache.SetServices(ctx, services)
	}
	if err == nil {
		return
	}

	s.logger.Warn("Failed to refresh services cache", zap.Error(err))
	if err := s.cache.InvalidateServices(ctx); err != nil {
		s.logger.Warn("Failed to invalidate services cache", zap.Error(err))
	}
}

func newService(name string, duration int, imageURL string) (*model.Service, error) {
	name, err := ValidateServiceName(name)
	if err != nil {
		return nil, err
	}

	if err := ValidateDuration(duration); err != nil {
		return nil, err
	}

	imageURL = strings.TrimSpace(imageURL)
	if imageURL != "" {
		u, err := url.Parse(imageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, ErrInvalidImageURL
		}
	}

	return &model.Service{Name: name, Duration: duration, ImageURL: imageURL}, nil
}

// ValidateServiceName схлопывает пробелы и проверяет длину названия
func ValidateServiceName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if n := utf8.RuneCountInString(name); n < 2 || n > maxServiceNameLen {
		return "", ErrInvalidServiceName
	}
	return name, nil
}

// ValidateDuration проверяет длительность услуги: от 5 минут, кратно 5
func ValidateDuration(minutes int) error {
	if minutes < MinServiceDuration || minutes > MaxServiceDuration || minutes%ServiceDurationStep != 0 {
		return ErrInvalidDuration
	}
	return nil
}
