package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DSN":         "postgres://localhost/booking",
		"TELEGRAM_TOKEN": "123:abc",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLead)
	assert.Empty(t, cfg.AdminIDs)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DSN":            "postgres://localhost/booking",
		"TELEGRAM_TOKEN":    "123:abc",
		"ENV":               "production",
		"REDIS_DB":          "2",
		"SLOT_MINUTES":      "45",
		"ADMIN_IDS":         " 100, 200 ,",
		"REMINDER_INTERVAL": "15m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 45, cfg.SlotMinutes)
	assert.Equal(t, []int64{100, 200}, cfg.AdminIDs)
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
	assert.True(t, cfg.IsAdmin(200))
	assert.False(t, cfg.IsAdmin(300))
}

func TestFromEnv_Errors(t *testing.T) {
	base := func(extra map[string]string) map[string]string {
		vars := map[string]string{"DB_DSN": "postgres://x", "TELEGRAM_TOKEN": "t"}
		for k, v := range extra {
			vars[k] = v
		}
		return vars
	}

	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing dsn", map[string]string{"TELEGRAM_TOKEN": "t"}},
		{"missing token", map[string]string{"DB_DSN": "postgres://x"}},
		{"slot too small", base(map[string]string{"SLOT_MINUTES": "1"})},
		{"slot not a number", base(map[string]string{"SLOT_MINUTES": "half"})},
		{"bad admin id", base(map[string]string{"ADMIN_IDS": "1,abc"})},
		{"bad duration", base(map[string]string{"REMINDER_LEAD": "tomorrow"})},
		{"negative duration", base(map[string]string{"REMINDER_INTERVAL": "-1h"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars))
			assert.Error(t, err)
		})
	}
}
