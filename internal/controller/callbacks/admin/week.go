package admin

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek рисует занятость недели и отправляет картинкой.
// Картинку нельзя получить редактированием текста, поэтому старое сообщение удаляется.
func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, Week)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		offset, err := strconv.Atoi(param)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		hc.ResetDialog()
		start := WeekStart(hc.Now(), offset)

		appointments, err := h.AdminService.Week(hc.Ctx, start)
		if err != nil {
			common.HandleError(hc, err, "week_appointments")
			return
		}
		schedule, err := h.ScheduleService.Get(hc.Ctx)
		if err != nil {
			common.HandleError(hc, err, "load_schedule")
			return
		}

		png, err := common.GenerateWeekImage(common.AgendaWeek{
			Start:        start,
			Schedule:     schedule,
			Appointments: appointments,
			Now:          hc.Now(),
		})
		if err != nil {
			common.HandleError(hc, err, "render_week_image")
			return
		}

		filename := "week_" + availability.FormatDate(start) + ".png"
		if err := hc.SendPhoto(filename, png, WeekCaption(start, len(appointments)), WeekKeyboard(offset)); err != nil {
			common.HandleError(hc, err, "send_week_image")
			return
		}
		if err := hc.DeleteMessage(); err != nil {
			h.Logger.Warn("Failed to delete previous message", zap.Error(err))
		}

		h.Logger.Info("Week image sent",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("week_start", availability.FormatDate(start)),
			zap.Int("appointments", len(appointments)),
			zap.Int("bytes", len(png)))

		hc.Answer("")
	})
}
