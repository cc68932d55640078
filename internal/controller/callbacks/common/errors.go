package common

import (
	"errors"

	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
)

// Общие ошибки для обработчиков
var (
	ErrNotAdmin       = errors.New("user is not an admin")
	ErrNoMessage      = errors.New("no message in callback")
	ErrInvalidFormat  = errors.New("invalid callback format")
	ErrScreenOutdated = errors.New("screen is outdated")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotAdmin):
		return "❌ Эта функция доступна только администратору"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrScreenOutdated), errors.Is(err, wizard.ErrOutOfOrder):
		return "⚠️ Этот экран устарел. Начните запись заново: /book"
	case errors.Is(err, wizard.ErrDateNotBookable):
		return "📅 На эту дату запись недоступна"
	case errors.Is(err, wizard.ErrDayNotLoaded):
		return "⏳ Расписание на этот день ещё загружается"
	case errors.Is(err, wizard.ErrSlotUnavailable), errors.Is(err, repository.ErrSlotTaken):
		return "😔 Это время уже занято. Выберите другое"
	case errors.Is(err, wizard.ErrSubmitInProgress):
		return "⏳ Запись уже отправляется"
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		return "✅ Эта запись уже создана"
	case errors.Is(err, wizard.ErrCannotGoBack):
		return "⚠️ Назад вернуться нельзя"
	case errors.Is(err, wizard.ErrInvalidName):
		return "❌ Введите имя от 2 до 100 символов"
	case errors.Is(err, wizard.ErrInvalidPhone):
		return "❌ Введите телефон: от 7 до 15 цифр, можно с + в начале"
	case errors.Is(err, repository.ErrServiceGone):
		return "😔 Эта услуга больше недоступна. Выберите другую"
	case errors.Is(err, service.ErrServiceNotFound):
		return "❌ Услуга не найдена"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Отменённую запись нельзя подтвердить"
	case errors.Is(err, service.ErrInvalidServiceName):
		return "❌ Название услуги: от 2 до 60 символов"
	case errors.Is(err, service.ErrInvalidDuration):
		return "❌ Длительность: от 5 до 480 минут, кратно 5"
	case errors.Is(err, service.ErrInvalidImageURL):
		return "❌ Ссылка на картинку должна начинаться с http:// или https://"
	case errors.Is(err, service.ErrInvalidHours):
		return "❌ Интервалы не должны пересекаться, начало раньше конца"
	default:
		return "❌ Произошла ошибка"
	}
}
