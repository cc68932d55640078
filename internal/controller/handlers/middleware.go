package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// isAdmin сообщает, что чат входит в ADMIN_IDS
func (h *Handlers) isAdmin(telegramID int64) bool {
	return h.deps.IsAdmin != nil && h.deps.IsAdmin(telegramID)
}

// requireAdmin проверяет что пользователь является администратором.
// При отказе сам отвечает пользователю.
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	telegramID := update.Message.From.ID
	if h.isAdmin(telegramID) {
		return true
	}

	h.logger.Warn("Admin check failed", zap.Int64("telegram_id", telegramID))
	h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администратору.")
	return false
}
