package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/booking_bot/internal/links"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// ========================
// Menu
// ========================

// MenuScreen главный экран админ-панели
func MenuScreen() (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("💇 Услуги", Services), keyboard.Button("📋 Записи", Appointments)).
		Row(keyboard.Button("🕒 Часы работы", Hours), keyboard.Button("🚫 Выходные даты", Blocked)).
		Row(keyboard.Button("📊 Занятость недели", Week+"0")).
		AddBackToMainButton()

	return "🛠 <b>Админ-панель</b>\n\nВыберите раздел:", kb.Build()
}

// ========================
// Services
// ========================

// ServicesScreen список услуг каталога
func ServicesScreen(services []*model.Service) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for _, s := range services {
		kb.Row(keyboard.Button("✏️ "+formatting.FormatServiceLine(s), fmt.Sprintf("%s%d", ServiceView, s.ID)))
	}
	kb.Row(keyboard.Button("➕ Добавить услугу", ServiceNew)).
		AddBackButton(Menu)

	if len(services) == 0 {
		return "💇 <b>Услуги</b>\n\nКаталог пуст. Добавьте первую услугу.", kb.Build()
	}
	text := fmt.Sprintf("💇 <b>Услуги</b> (%d %s)\n\nВыберите услугу для редактирования:",
		len(services), formatting.PluralizeServices(len(services)))
	return text, kb.Build()
}

// ServiceScreen карточка услуги
func ServiceScreen(s *model.Service) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	fmt.Fprintf(&text, "💇 <b>%s</b>\n\n", common.Escape(s.Name))
	fmt.Fprintf(&text, "⏱ Длительность: %s\n", formatting.FormatDuration(s.Duration))
	if s.ImageURL != "" {
		fmt.Fprintf(&text, "🖼 <a href=\"%s\">Картинка</a>\n", common.Escape(s.ImageURL))
	} else {
		text.WriteString("🖼 Без картинки\n")
	}

	id := strconv.FormatInt(s.ID, 10)
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✏️ Название", ServiceEditName+id), keyboard.Button("⏱ Длительность", ServiceEditDuration+id)).
		Row(keyboard.Button("🖼 Картинка", ServiceEditImage+id)).
		Row(keyboard.Button("🗑 Удалить", ServiceDelete+id)).
		AddBackButton(Services)

	return text.String(), kb.Build()
}

// ServiceDeleteScreen подтверждение удаления услуги
func ServiceDeleteScreen(s *model.Service) (string, *models.InlineKeyboardMarkup) {
	id := strconv.FormatInt(s.ID, 10)
	text := fmt.Sprintf("🗑 Удалить услугу <b>%s</b>?\n\nСуществующие записи сохранят название услуги.",
		common.Escape(s.Name))
	return text, keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons(ServiceDeleteConfirm+id, ServiceView+id)).
		Build()
}

// Подсказки для ввода полей услуги
const (
	PromptServiceName     = "✏️ Введите название услуги (от 2 до 60 символов):"
	PromptServiceDuration = "⏱ Введите длительность в минутах: от 5, кратно 5.\nОтправьте «-», чтобы оставить 30 минут."
	PromptServiceImage    = "🖼 Отправьте ссылку на картинку (http:// или https://).\nОтправьте «-», если картинка не нужна."
)

// PromptScreen экран ожидания текстового ввода с кнопкой отмены
func PromptScreen(prompt, cancelData string) (string, *models.InlineKeyboardMarkup) {
	return prompt, keyboard.NewBuilder().Row(keyboard.CancelButton(cancelData)).Build()
}

// ========================
// Hours
// ========================

// HoursScreen недельное расписание
func HoursScreen(schedule *availability.BusinessSchedule) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("🕒 <b>Часы работы</b>\n\n")

	buttons := make([]models.InlineKeyboardButton, 0, len(formatting.Weekdays))
	for _, wd := range formatting.Weekdays {
		var ranges []availability.TimeRange
		if schedule != nil {
			ranges = schedule.Weekly[wd]
		}
		fmt.Fprintf(&text, "<b>%s</b>: %s\n", formatting.GetWeekdayShort(wd), formatting.FormatRanges(ranges))
		buttons = append(buttons, keyboard.Button(formatting.GetWeekdayShort(wd), fmt.Sprintf("%s%d", Day, int(wd))))
	}
	if schedule != nil {
		fmt.Fprintf(&text, "\nШаг записи: %s", formatting.FormatDuration(schedule.SlotMinutes))
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, 4).
		AddBackButton(Menu)

	return text.String(), kb.Build()
}

// DayScreen часы работы одного дня недели
func DayScreen(wd time.Weekday, schedule *availability.BusinessSchedule) (string, *models.InlineKeyboardMarkup) {
	var ranges []availability.TimeRange
	if schedule != nil {
		ranges = schedule.Weekly[wd]
	}

	text := fmt.Sprintf("🕒 <b>%s</b>\n\n%s", formatting.GetWeekdayName(wd), formatting.FormatRanges(ranges))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✏️ Задать часы", fmt.Sprintf("%s%d", DaySet, int(wd))))
	if len(ranges) > 0 {
		kb.Row(keyboard.Button("🚫 Сделать выходным", fmt.Sprintf("%s%d", DayClose, int(wd))))
	}
	kb.AddBackButton(Hours)

	return text, kb.Build()
}

// HoursPrompt запрос интервалов работы
func HoursPrompt(wd time.Weekday) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🕒 <b>%s</b>\n\n"+
		"Отправьте интервалы работы через запятую, например:\n"+
		"<code>09:00-12:00, 14:00-18:00</code>\n\n"+
		"Отправьте «-», чтобы сделать день выходным.",
		formatting.GetWeekdayName(wd))
	return PromptScreen(text, fmt.Sprintf("%s%d", Day, int(wd)))
}

// ========================
// Blocked dates
// ========================

// BlockedScreen список выходных дат
func BlockedScreen(schedule *availability.BusinessSchedule) (string, *models.InlineKeyboardMarkup) {
	dates := schedule.BlockedDates()

	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		label := d
		if t, err := availability.ParseDate(d); err == nil {
			label = formatting.FormatDateWithWeekday(t)
		}
		buttons = append(buttons, keyboard.Button("❌ "+label, Unblock+d))
	}
	kb.Grid(buttons, 2).
		Row(keyboard.Button("➕ Добавить дату", BlockAdd)).
		AddBackButton(Menu)

	if len(dates) == 0 {
		return "🚫 <b>Выходные даты</b>\n\nВыходных дат нет.", kb.Build()
	}
	return "🚫 <b>Выходные даты</b>\n\nВ эти дни запись закрыта. Нажмите на дату, чтобы открыть её.", kb.Build()
}

// PromptBlockedDate подсказка ввода выходной даты
const PromptBlockedDate = "🚫 Отправьте дату в формате ДД.ММ.ГГГГ или ГГГГ-ММ-ДД:"

// ========================
// Appointments
// ========================

// AppointmentsScreen таблица записей с фильтрами
func AppointmentsScreen(appointments []*model.Appointment, q Query) (string, *models.InlineKeyboardMarkup) {
	totalPages := max(1, (len(appointments)+appointmentsPerPage-1)/appointmentsPerPage)
	page := max(0, min(q.Page, totalPages-1))
	start := page * appointmentsPerPage
	end := min(start+appointmentsPerPage, len(appointments))

	var text strings.Builder
	fmt.Fprintf(&text, "📋 <b>Записи</b> (%d)\n\n%s\n", len(appointments), q.Describe())
	if len(appointments) == 0 {
		text.WriteString("\nЗаписей не найдено.")
	}

	kb := keyboard.NewBuilder()
	for _, a := range appointments[start:end] {
		kb.Row(keyboard.Button(formatting.FormatAppointmentLine(a), fmt.Sprintf("%s%d", Appointment, a.ID)))
	}
	kb.AddPagination(AppointmentsPage, page, totalPages)

	kb.Row(
		periodButton("Все", model.RangeAll, q.Period),
		periodButton("Сегодня", model.RangeToday, q.Period),
		periodButton("Неделя", model.RangeWeek, q.Period),
		periodButton("Месяц", model.RangeMonth, q.Period),
	)
	kb.Row(
		statusButton("Все", "", q.Status),
		statusButton("⏳", model.AppointmentStatusPending, q.Status),
		statusButton("✅", model.AppointmentStatusConfirmed, q.Status),
		statusButton("❌", model.AppointmentStatusCancelled, q.Status),
	)
	kb.Row(
		keyboard.Button("💇 Услуга", FilterServiceMenu),
		keyboard.Button("📅 Дата", FilterDate),
		keyboard.Button("🕒 Время", FilterTime),
		keyboard.Button("🔍 Поиск", FilterSearch),
	)
	if !q.IsEmpty() {
		kb.Row(keyboard.Button("♻️ Сбросить фильтры", FilterReset))
	}
	kb.AddBackButton(Menu)

	return text.String(), kb.Build()
}

func periodButton(label string, period, active model.DateRange) models.InlineKeyboardButton {
	value := string(period)
	if period == model.RangeAll {
		value = allValue
	}
	if period == active {
		label = "• " + label
	}
	return keyboard.Button(label, FilterPeriod+value)
}

func statusButton(label string, status, active model.AppointmentStatus) models.InlineKeyboardButton {
	value := string(status)
	if status == "" {
		value = allValue
	}
	if status == active {
		label = "• " + label
	}
	return keyboard.Button(label, FilterStatus+value)
}

// FilterServicesScreen выбор услуги для фильтра
func FilterServicesScreen(services []*model.Service, q Query) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	all := "Все услуги"
	if q.ServiceName == "" {
		all = "• " + all
	}
	kb.Row(keyboard.Button(all, FilterServicePick+"0"))
	for _, s := range services {
		label := s.Name
		if s.ID == q.ServiceID {
			label = "• " + label
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", FilterServicePick, s.ID)))
	}
	kb.AddBackButton(Appointments)

	return "💇 Показать записи на услугу:", kb.Build()
}

// Подсказки текстовых фильтров
const (
	PromptFilterDate   = "📅 Отправьте дату в формате ДД.ММ.ГГГГ или ГГГГ-ММ-ДД.\nОтправьте «-», чтобы убрать фильтр."
	PromptFilterTime   = "🕒 Отправьте время в формате ЧЧ:ММ.\nОтправьте «-», чтобы убрать фильтр."
	PromptFilterSearch = "🔍 Отправьте часть имени или телефона.\nОтправьте «-», чтобы убрать поиск."
)

// AppointmentScreen карточка записи с действиями
func AppointmentScreen(a *model.Appointment) (string, *models.InlineKeyboardMarkup) {
	display := formatting.GetAppointmentStatusDisplay(a.Status)

	var text strings.Builder
	fmt.Fprintf(&text, "📋 <b>Запись #%d</b>\n\n", a.ID)
	fmt.Fprintf(&text, "💇 %s", common.Escape(a.ServiceName))
	if a.ServiceDuration > 0 {
		fmt.Fprintf(&text, " · %s", formatting.FormatDuration(a.ServiceDuration))
	}
	fmt.Fprintf(&text, "\n📅 %s\n🕒 %s\n", formatting.FormatDateWithWeekday(a.Date), a.Time)
	fmt.Fprintf(&text, "👤 %s\n📞 %s\n", common.Escape(a.ClientName), common.Escape(a.ClientPhone))
	if a.WantsReminder {
		if a.ReminderSentAt != nil {
			text.WriteString("🔔 Напоминание отправлено\n")
		} else {
			text.WriteString("🔔 Ждёт напоминания\n")
		}
	}
	fmt.Fprintf(&text, "\n📊 Статус: %s %s", display.Emoji, display.Text)

	id := strconv.FormatInt(a.ID, 10)
	kb := keyboard.NewBuilder()
	switch a.Status {
	case model.AppointmentStatusPending:
		kb.Row(keyboard.Button("✅ Подтвердить", AppointmentConfirm+id), keyboard.Button("❌ Отменить", AppointmentCancel+id))
	case model.AppointmentStatusConfirmed:
		kb.Row(keyboard.Button("❌ Отменить", AppointmentCancel+id))
	}
	if reminder := links.ReminderURL(a); reminder != "" {
		kb.Row(keyboard.URLButton("💬 Напомнить в WhatsApp", reminder))
	}
	kb.Row(keyboard.Button("🗑 Удалить", AppointmentDelete+id)).
		AddBackButton(Appointments)

	return text.String(), kb.Build()
}

// AppointmentDeleteScreen подтверждение удаления записи
func AppointmentDeleteScreen(a *model.Appointment) (string, *models.InlineKeyboardMarkup) {
	id := strconv.FormatInt(a.ID, 10)
	text := fmt.Sprintf("🗑 Удалить запись #%d?\n\n%s", a.ID, common.Escape(formatting.FormatAppointmentLine(a)))
	return text, keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons(AppointmentDelOK+id, Appointment+id)).
		Build()
}

// ========================
// Week
// ========================

// WeekCaption подпись к картинке занятости
func WeekCaption(weekStart time.Time, count int) string {
	end := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf("📊 <b>Неделя %s-%s</b>\n%d %s",
		formatting.FormatShortDate(weekStart), formatting.FormatShortDate(end),
		count, formatting.PluralizeAppointments(count))
}

// WeekKeyboard листание недель
func WeekKeyboard(offset int) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder().
		Row(keyboard.WeekPagination(Week, offset, -1, true)...)
	if offset != 0 {
		kb.Row(keyboard.Button("📍 Текущая неделя", Week+"0"))
	}
	return kb.AddBackButton(Menu).Build()
}

// WeekStart понедельник недели со сдвигом offset от текущей
func WeekStart(now time.Time, offset int) time.Time {
	today := availability.StartOfDay(now)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	return monday.AddDate(0, 0, offset*7)
}
