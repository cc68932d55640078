package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"go.uber.org/zap"
)

const appointmentsKind = "appointments"

// Day доступность одного дня для отрисовки
type Day struct {
	Date     time.Time
	Bookable bool
	Slots    []availability.Slot
}

// CalendarDay дата в выборе дня
type CalendarDay struct {
	Date     time.Time
	Bookable bool
}

type BookingService struct {
	db           repository.DB
	appointments *repository.AppointmentRepository
	schedules    *ScheduleService
	publisher    Publisher
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger

	now func() time.Time
}

func NewBookingService(
	db repository.DB,
	schedules *ScheduleService,
	publisher Publisher,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		db:           db,
		appointments: repository.NewAppointmentRepository(db),
		schedules:    schedules,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Schedule текущее расписание; nil, если администратор его ещё не настроил
func (s *BookingService) Schedule(ctx context.Context) (*availability.BusinessSchedule, error) {
	return s.schedules.Get(ctx)
}

// DayAvailability размечает слоты даты с учётом уже занятых времён.
// Без расписания или для недоступной даты возвращает пустой день.
func (s *BookingService) DayAvailability(ctx context.Context, date time.Time) (*Day, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveAvailability("day", time.Since(started).Seconds())
	}()

	date = availability.StartOfDay(date)
	day := &Day{Date: date}

	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !availability.IsDateBookable(date, schedule, now) {
		return day, nil
	}

	reserved, err := s.appointments.ReservedTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	day.Slots = availability.DaySlots(schedule, date, availability.NewTimeSet(reserved...), now)
	day.Bookable = availability.HasFreeSlot(day.Slots)
	return day, nil
}

// Calendar перечисляет days дней начиная с from с отметкой, можно ли на них записаться
func (s *BookingService) Calendar(ctx context.Context, from time.Time, days int) ([]CalendarDay, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveAvailability("calendar", time.Since(started).Seconds())
	}()

	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := availability.StartOfDay(from)
	calendar := make([]CalendarDay, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		calendar = append(calendar, CalendarDay{
			Date:     d,
			Bookable: availability.IsDateBookable(d, schedule, now),
		})
	}
	return calendar, nil
}

// CreateAppointment сохраняет запись, проверяя слот на сервере.
// Проверка и вставка выполняются в транзакции под advisory-блокировкой даты,
// уникальный индекс по (date, time) страхует от гонок вне этой блокировки.
func (s *BookingService) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.createAppointment(ctx, a)

	switch {
	case err == nil:
		s.metrics.ObserveAppointment("created")
	case errors.Is(err, repository.ErrSlotTaken), errors.Is(err, wizard.ErrSlotUnavailable):
		s.metrics.ObserveAppointment("slot_taken")
	case errors.Is(err, wizard.ErrDateNotBookable):
		s.metrics.ObserveAppointment("date_closed")
	default:
		s.metrics.ObserveAppointment("error")
	}
	return err
}

func (s *BookingService) createAppointment(ctx context.Context, a *model.Appointment) error {
	schedule, err := s.schedules.Get(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	if !availability.IsDateBookable(a.Date, schedule, now) {
		return wizard.ErrDateNotBookable
	}
	if !slotOffered(availability.DaySlots(schedule, a.Date, nil, now), a.Time) {
		return wizard.ErrSlotUnavailable
	}

	// Начинаем транзакцию
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, feed.AppointmentsTopic(a.Date)); err != nil {
		return fmt.Errorf("lock date: %w", err)
	}

	repo := repository.NewAppointmentRepository(tx)

	reserved, err := repo.ReservedTimes(ctx, a.Date)
	if err != nil {
		return err
	}
	if availability.NewTimeSet(reserved...).Has(a.Time) {
		return repository.ErrSlotTaken
	}

	if a.Status == "" {
		a.Status = model.AppointmentStatusPending
	}
	if err := repo.Create(ctx, a); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("chat_id", a.ClientChatID),
		zap.String("service", a.ServiceName),
		zap.String("date", availability.FormatDate(a.Date)),
		zap.String("time", a.Time.String()),
	)

	s.publishReserved(ctx, a.Date, append(reserved, a.Time))
	return nil
}

// ListForChat возвращает предстоящие записи клиента
func (s *BookingService) ListForChat(ctx context.Context, chatID int64) ([]*model.Appointment, error) {
	return s.appointments.ListByChat(ctx, chatID, s.now())
}

// PublishDay рассылает актуальные занятые времена даты подписчикам
func (s *BookingService) PublishDay(ctx context.Context, date time.Time) {
	reserved, err := s.appointments.ReservedTimes(ctx, date)
	if err != nil {
		s.logger.Warn("Failed to load reserved times for publish",
			zap.String("date", availability.FormatDate(date)),
			zap.Error(err))
		return
	}
	s.publishReserved(ctx, date, reserved)
}

func (s *BookingService) publishReserved(ctx context.Context, date time.Time, reserved []availability.TimeOfDay) {
	if s.publisher == nil {
		return
	}

	slices.Sort(reserved)
	times := make([]string, 0, len(reserved))
	for _, t := range reserved {
		times = append(times, t.String())
	}

	err := s.publisher.Publish(ctx, feed.Snapshot{
		Topic:    feed.AppointmentsTopic(date),
		Date:     availability.FormatDate(date),
		Reserved: times,
	})
	s.metrics.ObservePublish(appointmentsKind, err)
	if err != nil {
		s.logger.Warn("Failed to publish day snapshot",
			zap.String("date", availability.FormatDate(date)),
			zap.Error(err))
	}
}

func slotOffered(slots []availability.Slot, t availability.TimeOfDay) bool {
	for _, slot := range slots {
		if slot.Time == t {
			return true
		}
	}
	return false
}
