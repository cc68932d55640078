package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/jackc/pgx/v5"
)

const appointmentColumns = `id, service_id, service_name, service_duration, date, time,
		client_name, client_phone, client_chat_id, wants_reminder, reminder_sent_at, status, created_at`

type AppointmentRepository struct {
	db Querier
}

func NewAppointmentRepository(db Querier) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create создаёт новую запись.
// Если на слот уже есть неотменённая запись, возвращает ErrSlotTaken.
// ErrServiceGone возможен только на схеме, где service_id ещё ссылается на services.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (service_id, service_name, service_duration, date, time,
			client_name, client_phone, client_chat_id, wants_reminder, status)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.ServiceID,
		a.ServiceName,
		a.ServiceDuration,
		availability.FormatDate(a.Date),
		a.Time.String(),
		a.ClientName,
		a.ClientPhone,
		a.ClientChatID,
		a.WantsReminder,
		string(a.Status),
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		if isSlotTaken(err) {
			return ErrSlotTaken
		}
		if isServiceGone(err) {
			return ErrServiceGone
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// ReservedTimes возвращает занятые времена на дату (без отменённых записей)
func (r *AppointmentRepository) ReservedTimes(ctx context.Context, date time.Time) ([]availability.TimeOfDay, error) {
	query := `
		SELECT time
		FROM appointments
		WHERE date = $1::date AND status <> 'cancelled'
		ORDER BY time
	`

	rows, err := r.db.Query(ctx, query, availability.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("get reserved times: %w", err)
	}
	defer rows.Close()

	var reserved []availability.TimeOfDay
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan reserved time: %w", err)
		}
		t, err := availability.ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("parse reserved time: %w", err)
		}
		reserved = append(reserved, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reserved times: %w", err)
	}

	return reserved, nil
}

// List возвращает записи по фильтру, отсортированные по дате и времени
func (r *AppointmentRepository) List(ctx context.Context, f model.AppointmentFilter) ([]*model.Appointment, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ServiceName != "" {
		conds = append(conds, "service_name = "+arg(f.ServiceName))
	}
	if f.Date != nil {
		conds = append(conds, "date = "+arg(availability.FormatDate(*f.Date))+"::date")
	}
	if f.Time != nil {
		conds = append(conds, "time = "+arg(f.Time.String()))
	}
	if f.From != nil {
		conds = append(conds, "date >= "+arg(availability.FormatDate(*f.From))+"::date")
	}
	if f.To != nil {
		conds = append(conds, "date < "+arg(availability.FormatDate(*f.To))+"::date")
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, "(client_name ILIKE "+p+" OR client_phone LIKE "+p+")")
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, time, id"

	return r.queryAppointments(ctx, "list appointments", query, args...)
}

// ListByChat возвращает записи клиента начиная с даты from
func (r *AppointmentRepository) ListByChat(ctx context.Context, chatID int64, from time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_chat_id = $1 AND date >= $2::date
		ORDER BY date, time`

	return r.queryAppointments(ctx, "list appointments by chat", query, chatID, availability.FormatDate(from))
}

// DueReminders возвращает записи с неотправленным напоминанием в диапазоне дат
func (r *AppointmentRepository) DueReminders(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE wants_reminder
			AND reminder_sent_at IS NULL
			AND status <> 'cancelled'
			AND client_chat_id <> 0
			AND date BETWEEN $1::date AND $2::date
		ORDER BY date, time`

	return r.queryAppointments(ctx, "list due reminders", query,
		availability.FormatDate(from), availability.FormatDate(to))
}

// UpdateStatus меняет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		if isSlotTaken(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update appointment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}

	return nil
}

// MarkReminderSent отмечает отправку напоминания
func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE appointments SET reminder_sent_at = $2 WHERE id = $1 AND reminder_sent_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}

	return nil
}

// Delete удаляет запись
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}

	return nil
}

func (r *AppointmentRepository) queryAppointments(ctx context.Context, op, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return appointments, nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		a       model.Appointment
		date    time.Time
		rawTime string
		status  string
	)
	err := row.Scan(
		&a.ID,
		&a.ServiceID,
		&a.ServiceName,
		&a.ServiceDuration,
		&date,
		&rawTime,
		&a.ClientName,
		&a.ClientPhone,
		&a.ClientChatID,
		&a.WantsReminder,
		&a.ReminderSentAt,
		&status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t, err := availability.ParseTimeOfDay(rawTime)
	if err != nil {
		return nil, err
	}

	// DATE приходит как полночь UTC, переводим в локальную календарную дату
	y, m, d := date.Date()
	a.Date = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	a.Time = t
	a.Status = model.AppointmentStatus(status)
	return &a, nil
}
