package common

import (
	"context"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithContext создаёт HandlerContext и передаёт его в handler
func WithContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	handler(NewHandlerContext(ctx, b, callback, h))
}

// WithAdmin создаёт HandlerContext и проверяет что пользователь - администратор.
// При ошибке сам отвечает пользователю.
func WithAdmin(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAdmin(); err != nil {
		h.Logger.Warn("Admin check failed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("data", callback.Data))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError обрабатывает ошибку и отправляет ответ пользователю
func HandleError(hc *HandlerContext, err error, operation string) {
	hc.Handler.Logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}

// Render показывает экран и отвечает на callback
func Render(hc *HandlerContext, text string, keyboard *models.InlineKeyboardMarkup, answer string) {
	if err := hc.EditMessage(text, keyboard); err != nil {
		HandleError(hc, err, "render")
		return
	}
	hc.Answer(answer)
}

// LogAndAnswer логирует действие и отвечает на callback
func LogAndAnswer(hc *HandlerContext, message string, answer string, fields ...zap.Field) {
	fields = append(fields, zap.Int64("telegram_id", hc.TelegramID))
	hc.Handler.Logger.Info(message, fields...)
	hc.Answer(answer)
}
