package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/repository"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userColumns = []string{"id", "telegram_id", "username", "first_name", "last_name", "language_code", "created_at"}

func TestUserService_RegisterNewUser(t *testing.T) {
	mock := newMock(t)
	svc := NewUserService(repository.NewUserRepository(mock), zap.NewNop())
	created := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users").
		WithArgs(int64(555)).
		WillReturnRows(pgxmock.NewRows(userColumns))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(555), "anna", "Анна", "", "ru").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), created))

	user, err := svc.RegisterUser(context.Background(), 555, "anna", "Анна", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserService_RegisterUnchangedUserSkipsUpdate(t *testing.T) {
	mock := newMock(t)
	svc := NewUserService(repository.NewUserRepository(mock), zap.NewNop())
	created := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users").
		WithArgs(int64(555)).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(int64(1), int64(555), "anna", "Анна", "", "ru", created))

	user, err := svc.RegisterUser(context.Background(), 555, "anna", "Анна", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "Анна", user.DisplayName())
}
