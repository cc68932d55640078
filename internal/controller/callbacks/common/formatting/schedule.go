package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/model"
)

// strikeMark комбинируемый символ зачёркивания
const strikeMark = '\u0336'

// Strike зачёркивает текст для подписи кнопки, разметка в кнопках не работает
func Strike(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		b.WriteRune(strikeMark)
	}
	return b.String()
}

// FormatRanges интервалы работы дня: "09:00-12:00, 14:00-18:00"
func FormatRanges(ranges []availability.TimeRange) string {
	if len(ranges) == 0 {
		return "выходной"
	}
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}

// FormatServiceLine строка услуги в списке
func FormatServiceLine(s *model.Service) string {
	return fmt.Sprintf("%s · %s", s.Name, FormatDuration(s.Duration))
}

// FormatAppointmentLine краткая строка записи: "22.12 09:00 · Маникюр · Ольга"
func FormatAppointmentLine(a *model.Appointment) string {
	display := GetAppointmentStatusDisplay(a.Status)
	return fmt.Sprintf("%s %s %s · %s · %s",
		display.Emoji,
		FormatShortDate(a.Date),
		a.Time,
		a.ServiceName,
		a.ClientName,
	)
}
