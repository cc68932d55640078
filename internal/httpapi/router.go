package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Catalog источник списка услуг
type Catalog interface {
	List(ctx context.Context) ([]*model.Service, error)
}

// Availability источник доступности дня
type Availability interface {
	DayAvailability(ctx context.Context, date time.Time) (*service.Day, error)
}

// Subscriber лента изменений для потоковой доступности
type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*feed.Subscription, error)
}

// ReadyCheck проверка зависимости для /readyz
type ReadyCheck func(ctx context.Context) error

// Config зависимости HTTP API
type Config struct {
	Logger         *zap.Logger
	Catalog        Catalog
	Availability   Availability
	Feed           Subscriber
	MetricsHandler http.Handler
	ReadyChecks    map[string]ReadyCheck
}

// New собирает роутер HTTP API
func New(cfg *Config) http.Handler {
	h := &handler{
		logger:       cfg.Logger,
		catalog:      cfg.Catalog,
		availability: cfg.Availability,
		feed:         cfg.Feed,
		readyChecks:  cfg.ReadyChecks,
	}

	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.ready)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/services", h.listServices)
		api.Route("/availability/{date}", func(day chi.Router) {
			day.Get("/", h.dayAvailability)
			if cfg.Feed != nil {
				day.Get("/stream", h.streamAvailability)
			}
		})
	})

	return r
}
