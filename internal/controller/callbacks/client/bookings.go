package client

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MyBookingsScreen экран предстоящих записей чата
func MyBookingsScreen(ctx context.Context, h *callbacktypes.Handler, chatID int64) (string, *models.InlineKeyboardMarkup, error) {
	appointments, err := h.BookingService.ListForChat(ctx, chatID)
	if err != nil {
		return "", nil, fmt.Errorf("list appointments for chat: %w", err)
	}
	text, kb := BookingsScreen(appointments)
	return text, kb, nil
}

// HandleMyBookings "Мои записи"
func HandleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		text, kb, err := MyBookingsScreen(hc.Ctx, h, hc.ChatID)
		if err != nil {
			common.HandleError(hc, err, "my_bookings")
			return
		}
		common.Render(hc, text, kb, "")
	})
}
