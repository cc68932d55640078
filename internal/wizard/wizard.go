package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
)

// Step шаг мастера записи
type Step int

const (
	StepSelectService Step = iota + 1
	StepSelectDate
	StepSelectTime
	StepEnterDetails
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepSelectService:
		return "select_service"
	case StepSelectDate:
		return "select_date"
	case StepSelectTime:
		return "select_time"
	case StepEnterDetails:
		return "enter_details"
	case StepConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrOutOfOrder       = errors.New("wizard step is not active")
	ErrDateNotBookable  = errors.New("date is not bookable")
	ErrDayNotLoaded     = errors.New("availability for the date is not loaded yet")
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted = errors.New("appointment already submitted")
	ErrCannotGoBack     = errors.New("cannot go back from this step")
)

// AppointmentWriter сохраняет новую запись
type AppointmentWriter interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
}

// Ticket привязывает загрузку доступности к конкретному выбору даты
type Ticket struct {
	Date time.Time
	gen  uint64
}

// State снимок состояния мастера для отрисовки
type State struct {
	Step          Step
	Service       *model.Service
	Date          *time.Time
	Time          *availability.TimeOfDay
	ClientName    string
	ClientPhone   string
	WantsReminder bool
	Day           []availability.Slot
	DayLoaded     bool
	Submitting    bool
	Submitted     bool
	Appointment   *model.Appointment
}

// Wizard мастер записи одного чата.
// Все переходы сериализуются мьютексом: обновления Telegram обрабатываются
// в отдельных горутинах.
type Wizard struct {
	mu     sync.Mutex
	id     string
	chatID int64

	step          Step
	service       *model.Service
	date          *time.Time
	slot          *availability.TimeOfDay
	clientName    string
	clientPhone   string
	wantsReminder bool

	day       []availability.Slot
	dayLoaded bool
	gen       uint64

	submitting  bool
	submitted   bool
	appointment *model.Appointment
}

// New создаёт мастер в начальном состоянии
func New(chatID int64) *Wizard {
	return &Wizard{
		id:     uuid.NewString(),
		chatID: chatID,
		step:   StepSelectService,
	}
}

// ID идентификатор сессии для логов
func (w *Wizard) ID() string {
	return w.id
}

// Step текущий шаг
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SelectService выбирает услугу (1 → 2)
func (w *Wizard) SelectService(svc model.Service) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelectService {
		return ErrOutOfOrder
	}

	if w.service != nil && w.service.ID != svc.ID {
		w.clearSelectionsAfter(StepSelectService)
	}
	w.service = &svc
	w.step = StepSelectDate
	return nil
}

// SelectDate выбирает дату (2 → 3).
// Возвращённый Ticket нужно передать в ApplyDay вместе с загруженными слотами.
func (w *Wizard) SelectDate(date time.Time, schedule *availability.BusinessSchedule, today time.Time) (Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelectDate {
		return Ticket{}, ErrOutOfOrder
	}
	if !availability.IsDateBookable(date, schedule, today) {
		return Ticket{}, ErrDateNotBookable
	}

	date = availability.StartOfDay(date)
	if w.date == nil || !w.date.Equal(date) {
		w.clearSelectionsAfter(StepSelectDate)
	}
	w.date = &date

	// Любая загрузка, начатая до этого выбора, становится устаревшей
	w.gen++
	w.day = nil
	w.dayLoaded = false
	w.step = StepSelectTime

	return Ticket{Date: date, gen: w.gen}, nil
}

// ApplyDay применяет загруженные слоты.
// Возвращает false, если за время загрузки выбор даты изменился.
func (w *Wizard) ApplyDay(t Ticket, slots []availability.Slot) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t.gen != w.gen || w.date == nil || !w.date.Equal(t.Date) {
		return false
	}
	w.day = append([]availability.Slot(nil), slots...)
	w.dayLoaded = true
	return true
}

// SelectTime выбирает время (3 → 4), слот должен быть свободен
func (w *Wizard) SelectTime(t availability.TimeOfDay) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelectTime {
		return ErrOutOfOrder
	}
	if !w.dayLoaded {
		return ErrDayNotLoaded
	}

	free := false
	for _, s := range w.day {
		if s.Time == t {
			free = !s.Reserved
			break
		}
	}
	if !free {
		return ErrSlotUnavailable
	}

	w.slot = &t
	w.step = StepEnterDetails
	return nil
}

// SetName сохраняет имя клиента
func (w *Wizard) SetName(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepEnterDetails {
		return ErrOutOfOrder
	}
	name, err := ValidateName(name)
	if err != nil {
		return err
	}
	w.clientName = name
	return nil
}

// SetPhone сохраняет телефон клиента
func (w *Wizard) SetPhone(phone string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepEnterDetails {
		return ErrOutOfOrder
	}
	phone, err := ValidatePhone(phone)
	if err != nil {
		return err
	}
	w.clientPhone = phone
	return nil
}

// SetReminder сохраняет согласие на напоминание
func (w *Wizard) SetReminder(wants bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepEnterDetails {
		return ErrOutOfOrder
	}
	w.wantsReminder = wants
	return nil
}

// CanSubmit сообщает, что данные заполнены и запись ещё не отправляется
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked() == nil
}

func (w *Wizard) canSubmitLocked() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.submitting {
		return ErrSubmitInProgress
	}
	if w.step != StepEnterDetails {
		return ErrOutOfOrder
	}
	if _, err := ValidateName(w.clientName); err != nil {
		return err
	}
	if _, err := ValidatePhone(w.clientPhone); err != nil {
		return err
	}
	return nil
}

// Submit создаёт запись (4 → 5). Запись создаётся не больше одного раза:
// пока запрос выполняется, повторные вызовы получают ErrSubmitInProgress,
// после успеха ErrAlreadySubmitted. При ошибке записи мастер остаётся на шаге 4.
func (w *Wizard) Submit(ctx context.Context, writer AppointmentWriter) (*model.Appointment, error) {
	w.mu.Lock()
	if err := w.canSubmitLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	serviceID := w.service.ID
	appt := &model.Appointment{
		ServiceID:       &serviceID,
		ServiceName:     w.service.Name,
		ServiceDuration: w.service.Duration,
		Date:            *w.date,
		Time:            *w.slot,
		ClientName:      w.clientName,
		ClientPhone:     w.clientPhone,
		ClientChatID:    w.chatID,
		WantsReminder:   w.wantsReminder,
		Status:          model.AppointmentStatusPending,
	}
	w.submitting = true
	w.mu.Unlock()

	err := writer.CreateAppointment(ctx, appt)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		return nil, err
	}

	w.submitted = true
	w.appointment = appt
	w.step = StepConfirmed
	return appt, nil
}

// Busy сообщает, что запись сейчас отправляется
func (w *Wizard) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Back возвращает на предыдущий шаг, сохраняя сделанный на нём выбор
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitInProgress
	}
	if w.step <= StepSelectService || w.step >= StepConfirmed {
		return ErrCannotGoBack
	}

	w.step--
	if w.step == StepSelectDate {
		w.gen++
		w.dayLoaded = false
	}
	return nil
}

// Reset начинает новую запись ("записаться ещё раз")
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitInProgress
	}

	w.step = StepSelectService
	w.service = nil
	w.clearSelectionsAfter(StepSelectService)
	w.clientName = ""
	w.clientPhone = ""
	w.wantsReminder = false
	w.submitted = false
	w.appointment = nil
	w.gen++
	w.id = uuid.NewString()
	return nil
}

// Snapshot возвращает копию состояния
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{
		Step:          w.step,
		ClientName:    w.clientName,
		ClientPhone:   w.clientPhone,
		WantsReminder: w.wantsReminder,
		Day:           append([]availability.Slot(nil), w.day...),
		DayLoaded:     w.dayLoaded,
		Submitting:    w.submitting,
		Submitted:     w.submitted,
	}
	if w.service != nil {
		svc := *w.service
		st.Service = &svc
	}
	if w.date != nil {
		d := *w.date
		st.Date = &d
	}
	if w.slot != nil {
		t := *w.slot
		st.Time = &t
	}
	if w.appointment != nil {
		a := *w.appointment
		st.Appointment = &a
	}
	return st
}

// clearSelectionsAfter сбрасывает выборы шагов после step.
// Контактные данные клиента не зависят от выбора услуги и времени и сохраняются.
func (w *Wizard) clearSelectionsAfter(step Step) {
	if step < StepSelectDate {
		w.date = nil
		w.gen++
		w.day = nil
		w.dayLoaded = false
	}
	if step < StepSelectTime {
		w.slot = nil
	}
}
