package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Notifier отправляет клиенту сообщения от имени бота:
// смену статуса записи и напоминания
type Notifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewNotifier(b *bot.Bot, logger *zap.Logger) *Notifier {
	return &Notifier{bot: b, logger: logger}
}

// NotifyClient отправляет HTML-сообщение в чат клиента
func (n *Notifier) NotifyClient(ctx context.Context, chatID int64, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}

	n.logger.Debug("Client notified", zap.Int64("chat_id", chatID))
	return nil
}
