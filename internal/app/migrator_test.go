package app

import (
	"os"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

// upSection возвращает часть миграции, которая выполняется при goose up
func upSection(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	up, _, found := strings.Cut(string(data), "-- +goose Down")
	require.True(t, found, "%s has no down section", path)
	return up
}

func TestMigrations_Ordered(t *testing.T) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, m.Source)
		assert.Contains(t, upSection(t, m.Source), "-- +goose Up", m.Source)
	}
}

// Услугу можно удалить, пока клиент проходит мастер записи:
// запись хранит снимок услуги, а не ссылку на неё
func TestMigrations_AppointmentsDoNotReferenceServices(t *testing.T) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)

	referenced := false
	for _, m := range migrations {
		up := upSection(t, m.Source)
		if strings.Contains(up, "REFERENCES services") {
			referenced = true
		}
		if strings.Contains(up, "DROP CONSTRAINT IF EXISTS appointments_service_id_fkey") {
			referenced = false
		}
	}
	assert.False(t, referenced, "appointments.service_id must stay a plain snapshot column")
}
