package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Данные клиента в мастере записи
	StateEnteringName  UserState = "entering_name"
	StateEnteringPhone UserState = "entering_phone"

	// Создание услуги
	StateServiceName     UserState = "service_name"
	StateServiceDuration UserState = "service_duration"
	StateServiceImage    UserState = "service_image"

	// Редактирование услуги
	StateEditServiceName     UserState = "edit_service_name"
	StateEditServiceDuration UserState = "edit_service_duration"
	StateEditServiceImage    UserState = "edit_service_image"

	// Расписание
	StateHoursInput  UserState = "hours_input"
	StateBlockedDate UserState = "blocked_date"

	// Фильтры таблицы записей
	StateFilterDate   UserState = "filter_date"
	StateFilterTime   UserState = "filter_time"
	StateFilterSearch UserState = "filter_search"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
