package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment      = "development"
	defaultRedisAddr        = "localhost:6379"
	defaultHTTPAddr         = ":8080"
	defaultSlotMinutes      = 30
	defaultMigrationsDir    = "migrations"
	defaultReminderInterval = time.Hour
	defaultReminderLead     = 24 * time.Hour

	minSlotMinutes = 5
	maxSlotMinutes = 240
)

type Config struct {
	TelegramToken    string
	DBDSN            string
	Environment      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	HTTPAddr         string
	AdminIDs         []int64
	SlotMinutes      int
	BusinessWhatsApp string
	MigrationsDir    string
	ReminderInterval time.Duration
	ReminderLead     time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:    getenv("TELEGRAM_TOKEN"),
		DBDSN:            getenv("DB_DSN"),
		Environment:      getenv("ENV"),
		RedisAddr:        getenv("REDIS_ADDR"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		HTTPAddr:         getenv("HTTP_ADDR"),
		BusinessWhatsApp: getenv("BUSINESS_WHATSAPP"),
		MigrationsDir:    getenv("MIGRATIONS_DIR"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = defaultRedisAddr
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = defaultMigrationsDir
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	var err error
	if cfg.RedisDB, err = intVar(getenv, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SlotMinutes, err = intVar(getenv, "SLOT_MINUTES", defaultSlotMinutes); err != nil {
		return nil, err
	}
	if cfg.SlotMinutes < minSlotMinutes || cfg.SlotMinutes > maxSlotMinutes {
		return nil, fmt.Errorf("SLOT_MINUTES must be between %d and %d, got %d",
			minSlotMinutes, maxSlotMinutes, cfg.SlotMinutes)
	}
	if cfg.ReminderInterval, err = durationVar(getenv, "REMINDER_INTERVAL", defaultReminderInterval); err != nil {
		return nil, err
	}
	if cfg.ReminderLead, err = durationVar(getenv, "REMINDER_LEAD", defaultReminderLead); err != nil {
		return nil, err
	}
	if cfg.AdminIDs, err = parseIDs(getenv("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	return cfg, nil
}

// IsAdmin проверяет, что чат входит в список администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return v, nil
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
