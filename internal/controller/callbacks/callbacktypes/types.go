package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/booking_bot/internal/metrics"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	ResetDialog(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}
	Wizard(telegramID int64) *wizard.Wizard
	DropWizard(telegramID int64) bool
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService     *service.UserService
	CatalogService  *service.CatalogService
	ScheduleService *service.ScheduleService
	BookingService  *service.BookingService
	AdminService    *service.AdminService
	StateManager    StateManager
	Metrics         *metrics.BookingMetrics
	Logger          *zap.Logger

	// IsAdmin проверяет, что чат входит в список администраторов
	IsAdmin func(telegramID int64) bool
	// Номер WhatsApp для ссылки поддержки, пустой если не задан
	BusinessWhatsApp string

	Now func() time.Time
}
