package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"go.uber.org/zap"
)

// Notifier доставляет сообщение в чат клиента
type Notifier interface {
	NotifyClient(ctx context.Context, chatID int64, text string) error
}

type adminStore interface {
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context, f model.AppointmentFilter) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	Delete(ctx context.Context, id int64) error
}

type dayPublisher interface {
	PublishDay(ctx context.Context, date time.Time)
}

type AdminService struct {
	appointments adminStore
	days         dayPublisher
	notifier     Notifier
	logger       *zap.Logger

	now func() time.Time
}

func NewAdminService(appointments adminStore, days dayPublisher, notifier Notifier, logger *zap.Logger) *AdminService {
	return &AdminService{
		appointments: appointments,
		days:         days,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// ListAppointments возвращает записи по фильтрам таблицы.
// Период задаёт границы дат относительно текущего дня.
func (s *AdminService) ListAppointments(ctx context.Context, f model.AppointmentFilter, period model.DateRange) ([]*model.Appointment, error) {
	f.From, f.To = RangeBounds(period, s.now())

	appointments, err := s.appointments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// Week возвращает активные записи недели, начинающейся с weekStart
func (s *AdminService) Week(ctx context.Context, weekStart time.Time) ([]*model.Appointment, error) {
	from := availability.StartOfDay(weekStart)
	to := from.AddDate(0, 0, 7)

	all, err := s.appointments.List(ctx, model.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("list week appointments: %w", err)
	}

	active := all[:0]
	for _, a := range all {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return active, nil
}

// Get получает запись по ID
func (s *AdminService) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// Confirm подтверждает запись и сообщает клиенту
func (s *AdminService) Confirm(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch a.Status {
	case model.AppointmentStatusConfirmed:
		return a, nil
	case model.AppointmentStatusCancelled:
		return nil, ErrInvalidTransition
	}

	if err := s.setStatus(ctx, a, model.AppointmentStatusConfirmed); err != nil {
		return nil, err
	}

	s.notify(ctx, a, fmt.Sprintf("✅ Ваша запись на «%s» %s в %s подтверждена. Ждём вас!",
		a.ServiceName, a.Date.Format("02.01.2006"), a.Time))
	return a, nil
}

// Cancel отменяет запись, освобождает слот и сообщает клиенту
func (s *AdminService) Cancel(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AppointmentStatusCancelled {
		return a, nil
	}

	if err := s.setStatus(ctx, a, model.AppointmentStatusCancelled); err != nil {
		return nil, err
	}
	s.days.PublishDay(ctx, a.Date)

	s.notify(ctx, a, fmt.Sprintf("❌ Ваша запись на «%s» %s в %s отменена.",
		a.ServiceName, a.Date.Format("02.01.2006"), a.Time))
	return a, nil
}

// Delete удаляет запись без уведомления клиента
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logger.Info("Appointment deleted",
		zap.Int64("appointment_id", id),
		zap.String("date", availability.FormatDate(a.Date)),
		zap.String("time", a.Time.String()))

	if a.IsActive() {
		s.days.PublishDay(ctx, a.Date)
	}
	return nil
}

func (s *AdminService) setStatus(ctx context.Context, a *model.Appointment, status model.AppointmentStatus) error {
	if err := s.appointments.UpdateStatus(ctx, a.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("update appointment status: %w", err)
	}

	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", a.ID),
		zap.String("from", string(a.Status)),
		zap.String("to", string(status)))

	a.Status = status
	return nil
}

func (s *AdminService) notify(ctx context.Context, a *model.Appointment, text string) {
	if s.notifier == nil || a.ClientChatID == 0 {
		return
	}
	if err := s.notifier.NotifyClient(ctx, a.ClientChatID, text); err != nil {
		s.logger.Warn("Failed to notify client",
			zap.Int64("appointment_id", a.ID),
			zap.Int64("chat_id", a.ClientChatID),
			zap.Error(err))
	}
}

// RangeBounds переводит период фильтра в полуинтервал дат [from, to).
// Неделя начинается с понедельника.
func RangeBounds(period model.DateRange, now time.Time) (from, to *time.Time) {
	today := availability.StartOfDay(now)

	var start, end time.Time
	switch period {
	case model.RangeToday:
		start = today
		end = today.AddDate(0, 0, 1)
	case model.RangeWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7)
	case model.RangeMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end = start.AddDate(0, 1, 0)
	default:
		return nil, nil
	}
	return &start, &end
}
