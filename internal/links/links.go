package links

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
)

const (
	calendarBase = "https://www.google.com/calendar/render"
	whatsappBase = "https://wa.me/"

	// DefaultEventMinutes длительность события, если у записи нет длительности услуги
	DefaultEventMinutes = 60

	calendarStampLayout = "20060102T150405"
)

// CalendarURL ссылка на создание события в Google Calendar.
// Конец события считается по длительности услуги, сохранённой в записи.
func CalendarURL(a *model.Appointment) string {
	minutes := a.ServiceDuration
	if minutes <= 0 {
		minutes = DefaultEventMinutes
	}
	start := a.StartsAt()
	end := start.Add(time.Duration(minutes) * time.Minute)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", a.ServiceName)
	q.Set("dates", start.Format(calendarStampLayout)+"/"+end.Format(calendarStampLayout))
	q.Set("details", fmt.Sprintf("Запись: %s (%s)", a.ClientName, a.ClientPhone))
	q.Set("sf", "true")
	q.Set("output", "xml")

	return calendarBase + "?" + q.Encode()
}

// ReminderURL ссылка wa.me с напоминанием клиенту о записи.
// Пустая строка, если в телефоне нет цифр.
func ReminderURL(a *model.Appointment) string {
	text := fmt.Sprintf("Здравствуйте! Напоминаем о вашей записи на «%s» %s в %s.",
		a.ServiceName, a.Date.Format("02.01.2006"), a.Time)
	return whatsappURL(a.ClientPhone, text)
}

// SupportURL ссылка wa.me в поддержку бизнеса для переноса записи
func SupportURL(businessPhone string) string {
	return whatsappURL(businessPhone, "Здравствуйте! Хочу перенести запись или ошибся с днём.")
}

// Digits оставляет в телефоне только цифры
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func whatsappURL(phone, text string) string {
	digits := Digits(phone)
	if digits == "" {
		return ""
	}
	// wa.me ожидает пробелы как %20, а не "+"
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsappBase + digits + "?text=" + escaped
}
