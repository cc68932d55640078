package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/model"
)

// Query фильтры и страница таблицы записей одного администратора
type Query struct {
	ServiceID   int64
	ServiceName string
	Date        *time.Time
	Time        *availability.TimeOfDay
	Search      string
	Status      model.AppointmentStatus
	Period      model.DateRange
	Page        int
}

// Filter фильтр для AdminService без периода
func (q Query) Filter() model.AppointmentFilter {
	return model.AppointmentFilter{
		ServiceName: q.ServiceName,
		Date:        q.Date,
		Time:        q.Time,
		Search:      q.Search,
		Status:      q.Status,
	}
}

// IsEmpty сообщает, что фильтры не заданы
func (q Query) IsEmpty() bool {
	return q.ServiceName == "" && q.Date == nil && q.Time == nil &&
		q.Search == "" && q.Status == "" && q.Period == model.RangeAll
}

// Describe активные фильтры для заголовка таблицы
func (q Query) Describe() string {
	var parts []string
	if q.Period != model.RangeAll {
		parts = append(parts, "📆 "+periodLabel(q.Period))
	}
	if q.Status != "" {
		display := formatting.GetAppointmentStatusDisplay(q.Status)
		parts = append(parts, display.Emoji+" "+display.Text)
	}
	if q.ServiceName != "" {
		parts = append(parts, "💇 "+common.Escape(q.ServiceName))
	}
	if q.Date != nil {
		parts = append(parts, "📅 "+formatting.FormatDate(*q.Date))
	}
	if q.Time != nil {
		parts = append(parts, "🕒 "+q.Time.String())
	}
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("🔍 «%s»", common.Escape(q.Search)))
	}
	if len(parts) == 0 {
		return "Фильтры не заданы"
	}
	return strings.Join(parts, "\n")
}

// LoadQuery фильтры из состояния диалога
func LoadQuery(sm callbacktypes.StateManager, telegramID int64) Query {
	if v, ok := sm.GetData(telegramID, KeyQuery); ok {
		if q, ok := v.(Query); ok {
			return q
		}
	}
	return Query{}
}

// SaveQuery сохраняет фильтры в состоянии диалога
func SaveQuery(sm callbacktypes.StateManager, telegramID int64, q Query) {
	sm.SetData(telegramID, KeyQuery, q)
}

func periodLabel(p model.DateRange) string {
	switch p {
	case model.RangeToday:
		return "Сегодня"
	case model.RangeWeek:
		return "Эта неделя"
	case model.RangeMonth:
		return "Этот месяц"
	default:
		return "Все даты"
	}
}

func parsePeriod(s string) (model.DateRange, bool) {
	switch s {
	case allValue:
		return model.RangeAll, true
	case string(model.RangeToday), string(model.RangeWeek), string(model.RangeMonth):
		return model.DateRange(s), true
	}
	return "", false
}

func parseStatus(s string) (model.AppointmentStatus, bool) {
	switch s {
	case allValue:
		return "", true
	case string(model.AppointmentStatusPending),
		string(model.AppointmentStatusConfirmed),
		string(model.AppointmentStatusCancelled):
		return model.AppointmentStatus(s), true
	}
	return "", false
}
