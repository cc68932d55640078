package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/links"
	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"go.uber.org/zap"
)

type reminderStore interface {
	DueReminders(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64, at time.Time) error
}

// ReminderService отправляет клиентам напоминания о записи
type ReminderService struct {
	appointments reminderStore
	notifier     Notifier
	lead         time.Duration
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger

	now func() time.Time
}

func NewReminderService(
	appointments reminderStore,
	notifier Notifier,
	lead time.Duration,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		appointments: appointments,
		notifier:     notifier,
		lead:         lead,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// SendDue отправляет напоминания по записям, которые начинаются в ближайшие lead.
// Возвращает число отправленных напоминаний.
func (s *ReminderService) SendDue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	now := s.now()
	horizon := now.Add(s.lead)

	due, err := s.appointments.DueReminders(ctx, now, horizon)
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}

	sent := 0
	for _, a := range due {
		start := a.StartsAt()
		if !start.After(now) || start.After(horizon) {
			continue
		}

		if err := s.notifier.NotifyClient(ctx, a.ClientChatID, ReminderText(a)); err != nil {
			s.metrics.ObserveReminder("failed")
			s.logger.Warn("Failed to send reminder",
				zap.Int64("appointment_id", a.ID),
				zap.Int64("chat_id", a.ClientChatID),
				zap.Error(err))
			continue
		}

		if err := s.appointments.MarkReminderSent(ctx, a.ID, now); err != nil {
			s.logger.Error("Failed to mark reminder as sent",
				zap.Int64("appointment_id", a.ID),
				zap.Error(err))
		}
		s.metrics.ObserveReminder("sent")
		sent++
	}

	if sent > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}

// ReminderText текст напоминания в Telegram
func ReminderText(a *model.Appointment) string {
	return fmt.Sprintf("⏰ Напоминаем о записи на «%s» %s в %s.\n\n📅 Добавить в календарь: %s",
		a.ServiceName, a.Date.Format("02.01.2006"), a.Time, links.CalendarURL(a))
}
