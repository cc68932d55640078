package admin

import "github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"

// Callback data админ-панели
const (
	Menu = common.MenuAdmin

	// Услуги
	Services             = "adm_svc"
	ServiceView          = "adm_svc_view:"   // adm_svc_view:<id>
	ServiceNew           = "adm_svc_new"
	ServiceEditName      = "adm_svc_name:"   // adm_svc_name:<id>
	ServiceEditDuration  = "adm_svc_dur:"    // adm_svc_dur:<id>
	ServiceEditImage     = "adm_svc_img:"    // adm_svc_img:<id>
	ServiceDelete        = "adm_svc_del:"    // adm_svc_del:<id>
	ServiceDeleteConfirm = "adm_svc_del_ok:" // adm_svc_del_ok:<id>

	// Часы работы
	Hours    = "adm_hours"
	Day      = "adm_day:"       // adm_day:<weekday>
	DaySet   = "adm_day_set:"   // adm_day_set:<weekday>
	DayClose = "adm_day_close:" // adm_day_close:<weekday>

	// Выходные даты
	Blocked  = "adm_blocked"
	BlockAdd = "adm_block_add"
	Unblock  = "adm_unblock:" // adm_unblock:<YYYY-MM-DD>

	// Таблица записей
	Appointments       = "adm_appts"
	AppointmentsPage   = "adm_appts_page:"   // adm_appts_page:<page>
	FilterPeriod       = "adm_appts_period:" // adm_appts_period:<all|today|week|month>
	FilterStatus       = "adm_appts_status:" // adm_appts_status:<all|pending|confirmed|cancelled>
	FilterServiceMenu  = "adm_appts_svc"
	FilterServicePick  = "adm_appts_svcpick:" // adm_appts_svcpick:<id>, 0 сбрасывает
	FilterDate         = "adm_appts_date"
	FilterTime         = "adm_appts_time"
	FilterSearch       = "adm_appts_search"
	FilterReset        = "adm_appts_reset"
	Appointment        = "adm_appt:"        // adm_appt:<id>
	AppointmentConfirm = "adm_appt_ok:"     // adm_appt_ok:<id>
	AppointmentCancel  = "adm_appt_cancel:" // adm_appt_cancel:<id>
	AppointmentDelete  = "adm_appt_del:"    // adm_appt_del:<id>
	AppointmentDelOK   = "adm_appt_del_ok:" // adm_appt_del_ok:<id>

	// Занятость недели картинкой
	Week = "adm_week:" // adm_week:<offset>
)

// Ключи данных диалога
const (
	KeyServiceID = "service_id"
	KeyName      = "service_name"
	KeyDuration  = "service_duration"
	KeyWeekday   = "weekday"
	KeyQuery     = "appt_filter"
)

const (
	appointmentsPerPage = 10
	allValue            = "all"
)
