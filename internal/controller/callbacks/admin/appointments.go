package admin

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Appointments Table
// ========================

// HandleAppointments таблица записей с текущими фильтрами
func HandleAppointments(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		showAppointments(hc, "")
	})
}

// HandleAppointmentsPage листает таблицу
func HandleAppointmentsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, AppointmentsPage)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		page, err := strconv.Atoi(param)
		if err != nil || page < 0 {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		updateQuery(hc, func(q *Query) { q.Page = page })
		showAppointments(hc, "")
	})
}

// HandleFilterPeriod фильтр по периоду
func HandleFilterPeriod(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, _ := common.ParamFromCallback(callback.Data, FilterPeriod)
		period, ok := parsePeriod(param)
		if !ok {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		updateQuery(hc, func(q *Query) {
			q.Period = period
			q.Page = 0
		})
		showAppointments(hc, "📆 "+periodLabel(period))
	})
}

// HandleFilterStatus фильтр по статусу
func HandleFilterStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, _ := common.ParamFromCallback(callback.Data, FilterStatus)
		status, ok := parseStatus(param)
		if !ok {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		updateQuery(hc, func(q *Query) {
			q.Status = status
			q.Page = 0
		})
		showAppointments(hc, "")
	})
}

// HandleFilterServiceMenu выбор услуги для фильтра
func HandleFilterServiceMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		services, err := h.CatalogService.List(hc.Ctx)
		if err != nil {
			common.HandleError(hc, err, "list_services")
			return
		}
		text, kb := FilterServicesScreen(services, LoadQuery(h.StateManager, hc.TelegramID))
		common.Render(hc, text, kb, "")
	})
}

// HandleFilterServicePick применяет фильтр по услуге. Записи хранят название
// услуги, поэтому фильтр идёт по названию.
func HandleFilterServicePick(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		var name string
		if id != 0 {
			svc, err := h.CatalogService.Get(hc.Ctx, id)
			if err != nil {
				common.HandleError(hc, err, "get_service")
				return
			}
			name = svc.Name
		}

		updateQuery(hc, func(q *Query) {
			q.ServiceID = id
			q.ServiceName = name
			q.Page = 0
		})
		showAppointments(hc, "")
	})
}

// HandleFilterInput ждёт значение текстового фильтра: дата, время или поиск
func HandleFilterInput(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		var (
			next   state.UserState
			prompt string
		)
		switch callback.Data {
		case FilterDate:
			next, prompt = state.StateFilterDate, PromptFilterDate
		case FilterTime:
			next, prompt = state.StateFilterTime, PromptFilterTime
		default:
			next, prompt = state.StateFilterSearch, PromptFilterSearch
		}

		hc.SetState(callbacktypes.UserState(next))
		text, kb := PromptScreen(prompt, Appointments)
		common.Render(hc, text, kb, "")
	})
}

// HandleFilterReset сбрасывает все фильтры
func HandleFilterReset(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		SaveQuery(h.StateManager, hc.TelegramID, Query{})
		showAppointments(hc, "♻️ Фильтры сброшены")
	})
}

func updateQuery(hc *common.HandlerContext, mutate func(*Query)) {
	q := LoadQuery(hc.Handler.StateManager, hc.TelegramID)
	mutate(&q)
	SaveQuery(hc.Handler.StateManager, hc.TelegramID, q)
}

func showAppointments(hc *common.HandlerContext, answer string) {
	show(hc, "list_appointments", answer, func() (string, *models.InlineKeyboardMarkup, error) {
		return AppointmentsView(hc.Ctx, hc.Handler, hc.TelegramID)
	})
}

// ========================
// Appointment Actions
// ========================

// HandleAppointment карточка записи
func HandleAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		show(hc, "view_appointment", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return AppointmentCard(hc.Ctx, h, id)
		})
	})
}

// HandleAppointmentConfirm подтверждает запись
func HandleAppointmentConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		changeStatus(hc, h.AdminService.Confirm, "✅ Запись подтверждена")
	})
}

// HandleAppointmentCancel отменяет запись
func HandleAppointmentCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		changeStatus(hc, h.AdminService.Cancel, "❌ Запись отменена")
	})
}

func changeStatus(hc *common.HandlerContext, action func(context.Context, int64) (*model.Appointment, error), answer string) {
	id, err := common.ParseIDFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	a, err := action(hc.Ctx, id)
	if err != nil {
		common.HandleError(hc, err, "change_appointment_status")
		return
	}

	hc.Handler.Logger.Info("Admin changed appointment status",
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Int64("appointment_id", a.ID),
		zap.String("status", string(a.Status)))

	text, kb := AppointmentScreen(a)
	common.Render(hc, text, kb, answer)
}

// HandleAppointmentDelete спрашивает подтверждение удаления
func HandleAppointmentDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		a, err := h.AdminService.Get(hc.Ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_appointment")
			return
		}

		text, kb := AppointmentDeleteScreen(a)
		common.Render(hc, text, kb, "")
	})
}

// HandleAppointmentDeleteConfirm удаляет запись и возвращает к таблице
func HandleAppointmentDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		if err := h.AdminService.Delete(hc.Ctx, id); err != nil {
			common.HandleError(hc, err, "delete_appointment")
			return
		}

		h.Logger.Info("Admin deleted appointment",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("appointment_id", id))

		showAppointments(hc, "🗑 Запись удалена")
	})
}
