package formatting

import "github.com/Freeeeeet/booking_bot/internal/model"

// AppointmentStatusDisplay представляет отображение статуса записи
type AppointmentStatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) AppointmentStatusDisplay {
	displays := map[model.AppointmentStatus]AppointmentStatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает подтверждения"},
		model.AppointmentStatusConfirmed: {"✅", "Подтверждена"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return AppointmentStatusDisplay{"❓", "Неизвестно"}
}
