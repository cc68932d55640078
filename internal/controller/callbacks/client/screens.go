package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/booking_bot/internal/links"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/go-telegram/bot/models"
)

const (
	datesPerRow = 2
	timesPerRow = 4
)

// ServicesScreen шаг 1: выбор услуги
func ServicesScreen(services []*model.Service) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	if len(services) == 0 {
		return "💇 Пока нет услуг для записи. Загляните позже!", kb.AddBackToMainButton().Build()
	}

	for _, s := range services {
		kb.Row(keyboard.Button("💇 "+formatting.FormatServiceLine(s), fmt.Sprintf("%s%d", SelectService, s.ID)))
	}
	kb.AddBackToMainButton()

	return "📝 <b>Запись</b>\n\nШаг 1 из 4. Выберите услугу:", kb.Build()
}

// DatePickerScreen шаг 2: выбор даты в окне из DatePickerDays дней
func DatePickerScreen(svc *model.Service, days []service.CalendarDay, offset int, selected *time.Time) (string, *models.InlineKeyboardMarkup) {
	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	for _, d := range days {
		label := formatting.FormatDayLabel(d.Date)
		switch {
		case !d.Bookable:
			buttons = append(buttons, keyboard.Noop("✖️ "+formatting.FormatShortDate(d.Date)))
		case selected != nil && selected.Equal(d.Date):
			buttons = append(buttons, keyboard.Button("✅ "+label, SelectDate+availability.FormatDate(d.Date)))
		default:
			buttons = append(buttons, keyboard.Button(label, SelectDate+availability.FormatDate(d.Date)))
		}
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, datesPerRow).
		Row(keyboard.WeekPagination(DatePage, offset, MaxWeekOffset, false)...).
		AddBackButton(WizardBack)

	var text strings.Builder
	text.WriteString("📝 <b>Запись</b>\n\nШаг 2 из 4. Выберите дату\n\n")
	if svc != nil {
		fmt.Fprintf(&text, "💇 %s\n", common.Escape(formatting.FormatServiceLine(svc)))
		if svc.ImageURL != "" {
			fmt.Fprintf(&text, "🖼 <a href=\"%s\">Фото</a>\n", common.Escape(svc.ImageURL))
		}
	}
	if len(days) > 0 && !hasBookable(days) {
		text.WriteString("\n😔 В эти дни запись недоступна, попробуйте следующие")
	}

	return text.String(), kb.Build()
}

func hasBookable(days []service.CalendarDay) bool {
	for _, d := range days {
		if d.Bookable {
			return true
		}
	}
	return false
}

// TimeGridScreen шаг 3: выбор времени. Занятые слоты видны, но зачёркнуты.
func TimeGridScreen(st wizard.State) (string, *models.InlineKeyboardMarkup) {
	buttons := make([]models.InlineKeyboardButton, 0, len(st.Day))
	for _, s := range st.Day {
		label := s.Time.String()
		switch {
		case s.Reserved:
			buttons = append(buttons, keyboard.Noop(formatting.Strike(label)))
		case st.Time != nil && *st.Time == s.Time:
			buttons = append(buttons, keyboard.Button("✅ "+label, SelectTime+label))
		default:
			buttons = append(buttons, keyboard.Button(label, SelectTime+label))
		}
	}

	kb := keyboard.NewBuilder().
		Grid(buttons, timesPerRow).
		AddBackButton(WizardBack)

	var text strings.Builder
	text.WriteString("📝 <b>Запись</b>\n\nШаг 3 из 4. Выберите время\n\n")
	writeSelection(&text, st)

	switch {
	case len(st.Day) == 0:
		text.WriteString("\n😔 На эту дату нет времени для записи. Выберите другой день.")
	case !availability.HasFreeSlot(st.Day):
		text.WriteString("\n😔 Всё время на эту дату уже занято. Выберите другой день.")
	default:
		text.WriteString("\nЗачёркнутое время уже занято.")
	}

	return text.String(), kb.Build()
}

// NamePrompt шаг 4: запрос имени
func NamePrompt(st wizard.State) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("📝 <b>Запись</b>\n\nШаг 4 из 4. Ваши данные\n\n")
	writeSelection(&text, st)
	text.WriteString("\n👤 Напишите, как вас зовут:")

	return text.String(), keyboard.NewBuilder().AddBackButton(WizardBack).Build()
}

// PhonePrompt запрос телефона после имени
func PhonePrompt(st wizard.State) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("Приятно познакомиться, %s!\n\n📞 Напишите телефон для связи, например +7 900 123-45-67:",
		common.Escape(st.ClientName))
	return text, keyboard.NewBuilder().AddBackButton(WizardBack).Build()
}

// ReminderScreen вопрос о напоминании
func ReminderScreen(st wizard.State) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		AddRows(keyboard.YesNoButtons(ReminderYes, ReminderNo)).
		Row(keyboard.Button("✏️ Изменить данные", EditDetails)).
		AddBackButton(WizardBack)

	text := fmt.Sprintf("📞 Телефон %s сохранён.\n\n🔔 Напомнить вам о записи в Telegram перед визитом?",
		common.Escape(st.ClientPhone))
	return text, kb.Build()
}

// SummaryScreen итог перед отправкой
func SummaryScreen(st wizard.State) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("📝 <b>Проверьте запись</b>\n\n")
	writeSelection(&text, st)
	fmt.Fprintf(&text, "👤 %s\n📞 %s\n", common.Escape(st.ClientName), common.Escape(st.ClientPhone))
	if st.WantsReminder {
		text.WriteString("🔔 Напомним перед визитом\n")
	} else {
		text.WriteString("🔕 Без напоминания\n")
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("✅ Подтвердить запись", SubmitBooking)).
		Row(keyboard.Button("✏️ Изменить данные", EditDetails)).
		AddBackButton(WizardBack)

	return text.String(), kb.Build()
}

// ConfirmedScreen шаг 5: запись создана
func ConfirmedScreen(a *model.Appointment, businessWhatsApp string) (string, *models.InlineKeyboardMarkup) {
	display := formatting.GetAppointmentStatusDisplay(a.Status)
	text := fmt.Sprintf(
		"🎉 <b>Вы записаны!</b>\n\n"+
			"💇 %s\n"+
			"📅 %s\n"+
			"🕒 %s\n"+
			"👤 %s\n"+
			"📞 %s\n\n"+
			"📊 Статус: %s %s",
		common.Escape(a.ServiceName),
		formatting.FormatDateWithWeekday(a.Date),
		a.Time,
		common.Escape(a.ClientName),
		common.Escape(a.ClientPhone),
		display.Emoji,
		display.Text,
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.URLButton("📅 Добавить в календарь", links.CalendarURL(a)))
	if support := links.SupportURL(businessWhatsApp); support != "" {
		kb.Row(keyboard.URLButton("💬 Перенести или уточнить", support))
	}
	kb.Row(keyboard.Button("➕ Записаться ещё", BookAnother)).
		Row(keyboard.Button("📋 Мои записи", MyBookings))

	return text, kb.Build()
}

// BookingsScreen предстоящие записи клиента
func BookingsScreen(appointments []*model.Appointment) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📝 Записаться", StartBooking)).
		AddBackToMainButton()

	if len(appointments) == 0 {
		return "📋 У вас нет предстоящих записей.", kb.Build()
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📋 <b>Ваши записи</b> (%d %s)\n\n",
		len(appointments), formatting.PluralizeAppointments(len(appointments)))
	for _, a := range appointments {
		display := formatting.GetAppointmentStatusDisplay(a.Status)
		fmt.Fprintf(&text, "%s %s %s · %s\n",
			display.Emoji,
			formatting.FormatDateWithWeekday(a.Date),
			a.Time,
			common.Escape(a.ServiceName),
		)
	}
	text.WriteString("\n⏳ ожидает подтверждения · ✅ подтверждена · ❌ отменена")

	return text.String(), kb.Build()
}

func writeSelection(text *strings.Builder, st wizard.State) {
	if st.Service != nil {
		fmt.Fprintf(text, "💇 %s\n", common.Escape(formatting.FormatServiceLine(st.Service)))
	}
	if st.Date != nil {
		fmt.Fprintf(text, "📅 %s\n", formatting.FormatDateWithWeekday(*st.Date))
	}
	if st.Time != nil {
		fmt.Fprintf(text, "🕒 %s\n", st.Time)
	}
}
