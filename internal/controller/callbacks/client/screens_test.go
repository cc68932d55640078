package client

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatten(kb *models.InlineKeyboardMarkup) []models.InlineKeyboardButton {
	var out []models.InlineKeyboardButton
	for _, row := range kb.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func findByData(kb *models.InlineKeyboardMarkup, data string) (models.InlineKeyboardButton, bool) {
	for _, b := range flatten(kb) {
		if b.CallbackData == data {
			return b, true
		}
	}
	return models.InlineKeyboardButton{}, false
}

func TestServicesScreen(t *testing.T) {
	text, kb := ServicesScreen([]*model.Service{
		{ID: 1, Name: "Маникюр", Duration: 60},
		{ID: 2, Name: "Стрижка", Duration: 30},
	})
	assert.Contains(t, text, "Шаг 1 из 4")

	b, ok := findByData(kb, "svc:2")
	require.True(t, ok)
	assert.Contains(t, b.Text, "Стрижка")

	_, ok = findByData(kb, keyboard.BackToMainData)
	assert.True(t, ok)
}

func TestServicesScreen_Empty(t *testing.T) {
	text, kb := ServicesScreen(nil)
	assert.Contains(t, text, "Пока нет услуг")
	assert.Len(t, flatten(kb), 1)
}

func TestDatePickerScreen(t *testing.T) {
	mon := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
	tue := mon.AddDate(0, 0, 1)
	wed := mon.AddDate(0, 0, 2)
	days := []service.CalendarDay{
		{Date: mon, Bookable: true},
		{Date: tue, Bookable: false},
		{Date: wed, Bookable: true},
	}

	text, kb := DatePickerScreen(&model.Service{Name: "Маникюр", Duration: 60}, days, 0, &wed)
	assert.Contains(t, text, "Маникюр")

	// недоступный день виден, но не выбирается
	for _, b := range flatten(kb) {
		assert.NotEqual(t, "date:2025-12-23", b.CallbackData)
	}
	assert.Equal(t, "✖️ 23.12", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, keyboard.NoopData, kb.InlineKeyboard[0][1].CallbackData)

	selected, ok := findByData(kb, "date:2025-12-24")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(selected.Text, "✅ "))

	// на первой неделе листать назад нельзя
	_, ok = findByData(kb, "date_week:-1")
	assert.False(t, ok)
	_, ok = findByData(kb, "date_week:1")
	assert.True(t, ok)
	_, ok = findByData(kb, WizardBack)
	assert.True(t, ok)
}

func TestDatePickerScreen_LastWeek(t *testing.T) {
	_, kb := DatePickerScreen(nil, nil, MaxWeekOffset, nil)
	_, ok := findByData(kb, "date_week:"+strconv.Itoa(MaxWeekOffset+1))
	assert.False(t, ok)
	_, ok = findByData(kb, "date_week:"+strconv.Itoa(MaxWeekOffset-1))
	assert.True(t, ok)
}

func TestDatePickerScreen_NothingBookable(t *testing.T) {
	days := []service.CalendarDay{{Date: time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)}}
	text, _ := DatePickerScreen(nil, days, 0, nil)
	assert.Contains(t, text, "запись недоступна")
}

func TestTimeGridScreen(t *testing.T) {
	date := time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local)
	chosen := availability.MustTimeOfDay("10:30")
	st := wizard.State{
		Step: wizard.StepSelectTime,
		Date: &date,
		Time: &chosen,
		Day: []availability.Slot{
			{Time: availability.MustTimeOfDay("10:00"), Reserved: true},
			{Time: availability.MustTimeOfDay("10:30")},
			{Time: availability.MustTimeOfDay("11:00")},
		},
		DayLoaded: true,
	}

	text, kb := TimeGridScreen(st)
	assert.Contains(t, text, "Зачёркнутое время уже занято")

	first := kb.InlineKeyboard[0][0]
	assert.Equal(t, keyboard.NoopData, first.CallbackData)
	assert.Equal(t, "1\u03360\u0336:\u03360\u03360\u0336", first.Text)

	b, ok := findByData(kb, "time:10:30")
	require.True(t, ok)
	assert.Equal(t, "✅ 10:30", b.Text)

	_, ok = findByData(kb, "time:11:00")
	assert.True(t, ok)
}

func TestTimeGridScreen_AllReserved(t *testing.T) {
	st := wizard.State{Day: []availability.Slot{{Time: availability.MustTimeOfDay("10:00"), Reserved: true}}}
	text, _ := TimeGridScreen(st)
	assert.Contains(t, text, "Всё время на эту дату уже занято")

	text, _ = TimeGridScreen(wizard.State{})
	assert.Contains(t, text, "нет времени для записи")
}

func TestSummaryScreen_EscapesInput(t *testing.T) {
	text, kb := SummaryScreen(wizard.State{
		ClientName:    "<b>Ольга</b>",
		ClientPhone:   "+7 900 123-45-67",
		WantsReminder: true,
	})
	assert.Contains(t, text, "&lt;b&gt;Ольга&lt;/b&gt;")
	assert.Contains(t, text, "Напомним перед визитом")

	_, ok := findByData(kb, SubmitBooking)
	assert.True(t, ok)
}

func TestConfirmedScreen(t *testing.T) {
	a := &model.Appointment{
		ServiceName:     "Маникюр",
		ServiceDuration: 60,
		Date:            time.Date(2025, 12, 22, 0, 0, 0, 0, time.Local),
		Time:            availability.MustTimeOfDay("09:30"),
		ClientName:      "Ольга",
		ClientPhone:     "+79001234567",
		Status:          model.AppointmentStatusPending,
	}

	text, kb := ConfirmedScreen(a, "+7 (900) 000-00-00")
	assert.Contains(t, text, "22.12.2025 (Пн)")
	assert.Contains(t, text, "09:30")

	var urls []string
	for _, b := range flatten(kb) {
		if b.URL != "" {
			urls = append(urls, b.URL)
		}
	}
	require.Len(t, urls, 2)
	assert.True(t, strings.HasPrefix(urls[0], "https://www.google.com/calendar/render?"))
	assert.Equal(t, "https://wa.me/79000000000", strings.SplitN(urls[1], "?", 2)[0])

	_, ok := findByData(kb, BookAnother)
	assert.True(t, ok)

	// без телефона бизнеса кнопки поддержки нет
	_, kb = ConfirmedScreen(a, "")
	urls = urls[:0]
	for _, b := range flatten(kb) {
		if b.URL != "" {
			urls = append(urls, b.URL)
		}
	}
	assert.Len(t, urls, 1)
}

func TestBookingsScreen(t *testing.T) {
	text, _ := BookingsScreen(nil)
	assert.Contains(t, text, "нет предстоящих записей")

	text, _ = BookingsScreen([]*model.Appointment{{
		ServiceName: "Стрижка",
		Date:        time.Date(2025, 12, 23, 0, 0, 0, 0, time.Local),
		Time:        availability.MustTimeOfDay("15:00"),
		Status:      model.AppointmentStatusConfirmed,
	}})
	assert.Contains(t, text, "1 запись")
	assert.Contains(t, text, "✅ 23.12.2025 (Вт) 15:00 · Стрижка")
}
