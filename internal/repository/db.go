package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier общий интерфейс пула и транзакции
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB пул соединений, умеющий открывать транзакции
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	ErrNotFound  = errors.New("not found")
	ErrSlotTaken = errors.New("slot already has an active appointment")
	// ErrServiceGone услугу удалили, а база ещё держит внешний ключ на services
	ErrServiceGone = errors.New("service no longer exists")
)

const (
	uniqueViolation = "23505"
	activeSlotIndex = "appointments_active_slot_uniq"

	foreignKeyViolation = "23503"
	serviceForeignKey   = "appointments_service_id_fkey"
)

// isNotFound проверяет является ли ошибка "строка не найдена"
func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isSlotTaken распознаёт нарушение уникальности активной записи на (date, time)
func isSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeSlotIndex
}

// isServiceGone распознаёт нарушение внешнего ключа appointments.service_id
func isServiceGone(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == serviceForeignKey
}
