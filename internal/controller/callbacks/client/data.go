package client

import "github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"

// Callback data мастера записи
const (
	StartBooking  = common.MenuBook
	BookAnother   = "book_another"
	MyBookings    = common.MenuMyBookings
	SelectService = "svc:"       // svc:<service_id>
	DatePage      = "date_week:" // date_week:<week_offset>
	SelectDate    = "date:"      // date:<YYYY-MM-DD>
	SelectTime    = "time:"      // time:<HH:MM>
	ReminderYes   = "remind:yes"
	ReminderNo    = "remind:no"
	EditDetails   = "edit_details"
	SubmitBooking = "confirm_booking"
	WizardBack    = "wiz_back"
)

const (
	// DatePickerDays дней на одном экране выбора даты
	DatePickerDays = 14
	// MaxDaysAhead насколько вперёд можно листать выбор даты
	MaxDaysAhead = 84
	// MaxWeekOffset последняя неделя, с которой начинается окно выбора даты
	MaxWeekOffset = (MaxDaysAhead - DatePickerDays) / 7
)
