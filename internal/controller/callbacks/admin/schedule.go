package admin

import (
	"context"
	"strconv"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Working Hours
// ========================

// HandleHours недельное расписание
func HandleHours(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		show(hc, "view_hours", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return HoursView(hc.Ctx, h)
		})
	})
}

// HandleDay расписание одного дня недели
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		wd, err := parseWeekday(callback.Data, Day)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.ResetDialog()
		show(hc, "view_day", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return DayView(hc.Ctx, h, wd)
		})
	})
}

// HandleDaySet ждёт интервалы работы текстом
func HandleDaySet(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		wd, err := parseWeekday(callback.Data, DaySet)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		hc.SetData(KeyWeekday, wd)
		hc.SetState(callbacktypes.UserState(state.StateHoursInput))

		text, kb := HoursPrompt(wd)
		common.Render(hc, text, kb, "")
	})
}

// HandleDayClose делает день недели выходным
func HandleDayClose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		wd, err := parseWeekday(callback.Data, DayClose)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		if err := h.ScheduleService.CloseDay(hc.Ctx, wd); err != nil {
			common.HandleError(hc, err, "close_day")
			return
		}

		h.Logger.Info("Weekday closed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("weekday", wd.String()))

		show(hc, "view_day", "🚫 "+formatting.GetWeekdayName(wd)+": выходной", func() (string, *models.InlineKeyboardMarkup, error) {
			return DayView(hc.Ctx, h, wd)
		})
	})
}

func parseWeekday(data, prefix string) (time.Weekday, error) {
	param, err := common.ParamFromCallback(data, prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(param)
	if err != nil || n < int(time.Sunday) || n > int(time.Saturday) {
		return 0, common.ErrInvalidFormat
	}
	return time.Weekday(n), nil
}

// ========================
// Blocked Dates
// ========================

// HandleBlocked список выходных дат
func HandleBlocked(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		show(hc, "view_blocked", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return BlockedView(hc.Ctx, h)
		})
	})
}

// HandleBlockAdd ждёт дату текстом
func HandleBlockAdd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.SetState(callbacktypes.UserState(state.StateBlockedDate))
		text, kb := PromptScreen(PromptBlockedDate, Blocked)
		common.Render(hc, text, kb, "")
	})
}

// HandleUnblock открывает дату для записи
func HandleUnblock(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, Unblock)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		date, err := availability.ParseDate(param)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		if err := h.ScheduleService.UnblockDate(hc.Ctx, date); err != nil {
			common.HandleError(hc, err, "unblock_date")
			return
		}

		h.Logger.Info("Date unblocked",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("date", param))

		show(hc, "view_blocked", "✅ "+formatting.FormatDate(date)+" открыта для записи", func() (string, *models.InlineKeyboardMarkup, error) {
			return BlockedView(hc.Ctx, h)
		})
	})
}
