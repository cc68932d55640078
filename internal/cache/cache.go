package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	scheduleKey = "booking:cache:schedule"
	servicesKey = "booking:cache:services"

	DefaultTTL = 10 * time.Minute
)

// Cache кэширует редко меняющиеся документы: расписание и каталог услуг
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Schedule возвращает документ расписания; ok=false при промахе
func (c *Cache) Schedule(ctx context.Context) (*availability.ScheduleDocument, bool, error) {
	var doc availability.ScheduleDocument
	ok, err := c.get(ctx, scheduleKey, &doc)
	if err != nil || !ok {
		return nil, false, err
	}
	return &doc, true, nil
}

// SetSchedule сохраняет документ расписания, перезаписывая прежний
func (c *Cache) SetSchedule(ctx context.Context, doc *availability.ScheduleDocument) error {
	return c.set(ctx, scheduleKey, doc)
}

// FillSchedule кладёт документ, прочитанный из базы, только если ключа ещё нет.
// Документ, записанный SetSchedule после сохранения, не перетирается.
func (c *Cache) FillSchedule(ctx context.Context, doc *availability.ScheduleDocument) error {
	return c.fill(ctx, scheduleKey, doc)
}

// Services возвращает каталог услуг; ok=false при промахе
func (c *Cache) Services(ctx context.Context) ([]*model.Service, bool, error) {
	var services []*model.Service
	ok, err := c.get(ctx, servicesKey, &services)
	if err != nil || !ok {
		return nil, false, err
	}
	return services, true, nil
}

// SetServices сохраняет каталог услуг, перезаписывая прежний
func (c *Cache) SetServices(ctx context.Context, services []*model.Service) error {
	if services == nil {
		services = []*model.Service{}
	}
	return c.set(ctx, servicesKey, services)
}

// FillServices кладёт каталог, только если ключа ещё нет
func (c *Cache) FillServices(ctx context.Context, services []*model.Service) error {
	if services == nil {
		services = []*model.Service{}
	}
	return c.fill(ctx, servicesKey, services)
}

// InvalidateSchedule удаляет расписание из кэша
func (c *Cache) InvalidateSchedule(ctx context.Context) error {
	return c.del(ctx, scheduleKey)
}

// InvalidateServices удаляет каталог из кэша
func (c *Cache) InvalidateServices(ctx context.Context) error {
	return c.del(ctx, servicesKey)
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) fill(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.rdb.SetNX(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: fill %s: %w", key, err)
	}
	return nil
}

func (c *Cache) del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}
