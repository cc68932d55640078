package model

import (
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена администратором
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
)

// Appointment запись клиента.
// Название и длительность услуги копируются в момент записи и не меняются
// вместе с каталогом.
type Appointment struct {
	ID              int64                  `json:"id"`
	ServiceID       *int64                 `json:"service_id,omitempty"`
	ServiceName     string                 `json:"service"`
	ServiceDuration int                    `json:"service_duration"`
	Date            time.Time              `json:"date"`
	Time            availability.TimeOfDay `json:"time"`
	ClientName      string                 `json:"name"`
	ClientPhone     string                 `json:"phone"`
	ClientChatID    int64                  `json:"client_chat_id"`
	WantsReminder   bool                   `json:"wants_reminder"`
	ReminderSentAt  *time.Time             `json:"reminder_sent_at,omitempty"`
	Status          AppointmentStatus      `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

// StartsAt момент начала записи
func (a *Appointment) StartsAt() time.Time {
	return a.Time.On(a.Date)
}

// IsActive сообщает, что запись не отменена
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

// DateRange период фильтра в таблице записей
type DateRange string

const (
	RangeAll   DateRange = ""
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// AppointmentFilter фильтры таблицы записей администратора
type AppointmentFilter struct {
	ServiceName string
	Date        *time.Time
	Time        *availability.TimeOfDay
	From        *time.Time // включительно
	To          *time.Time // не включительно
	Search      string     // подстрока имени (без учёта регистра) или телефона
	Status      AppointmentStatus
}
