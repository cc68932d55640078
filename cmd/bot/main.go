package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/app"
	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/config"
	"github.com/Freeeeeet/booking_bot/internal/controller"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/httpapi"
	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting booking bot",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Int("slot_minutes", cfg.SlotMinutes),
		zap.Int("admins", len(cfg.AdminIDs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// ===== Storage =====
	pool, err := app.OpenDB(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	rdb, err := app.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// Кэш и лента изменений продолжат работать в деградированном режиме
		logger.Warn("Redis is unavailable, cache and change feed are degraded", zap.Error(err))
	} else {
		logger.Info("✅ Connected to redis")
	}
	defer rdb.Close()

	changes := feed.New(rdb, logger)
	docCache := cache.New(rdb, cache.DefaultTTL)

	// ===== Metrics =====
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// ===== Telegram =====
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}
	notifier := controller.NewNotifier(b, logger)

	// ===== Services =====
	appointments := repository.NewAppointmentRepository(pool)

	scheduleService := service.NewScheduleService(
		repository.NewScheduleRepository(pool), docCache, changes, m, cfg.SlotMinutes, logger)
	catalogService := service.NewCatalogService(
		repository.NewServiceRepository(pool), docCache, changes, m, logger)
	bookingService := service.NewBookingService(pool, scheduleService, changes, m, logger)
	adminService := service.NewAdminService(appointments, bookingService, notifier, logger)
	userService := service.NewUserService(repository.NewUserRepository(pool), logger)
	reminderService := service.NewReminderService(appointments, notifier, cfg.ReminderLead, m, logger)

	botController := controller.NewBotController(b,
		controller.Services{
			Users:    userService,
			Catalog:  catalogService,
			Schedule: scheduleService,
			Booking:  bookingService,
			Admin:    adminService,
		},
		m, cfg.IsAdmin, cfg.BusinessWhatsApp, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands were not set", zap.Error(err))
	}

	// ===== HTTP API =====
	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.New(&httpapi.Config{
			Logger:         logger,
			Catalog:        catalogService,
			Availability:   bookingService,
			Feed:           changes,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadyChecks: map[string]httpapi.ReadyCheck{
				"postgres": pool.Ping,
				"redis": func(ctx context.Context) error {
					return rdb.Ping(ctx).Err()
				},
			},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// ===== Background =====
	scheduler := app.NewScheduler(reminderService, cfg.ReminderInterval, logger)
	scheduler.Start(ctx)

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		botController.Start(ctx)
	}()

	logger.Info("✅ Bot is running")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err, ok := <-serverErr:
		if ok {
			runErr = err
			logger.Error("HTTP API failed", zap.Error(err))
		}
	}

	// ===== Shutdown =====
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP API shutdown failed", zap.Error(err))
	}
	scheduler.Stop()

	if runErr == nil {
		<-botDone
	}

	return runErr
}
