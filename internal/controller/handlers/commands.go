package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.deps.UserService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	h.stateManager.ResetDialog(user.ID)
	h.stateManager.DropWizard(user.ID)

	menuText, kb := common.MainMenuScreen(h.isAdmin(user.ID))
	welcomeText := fmt.Sprintf("👋 Привет, %s!\n\nЗдесь можно записаться на услугу за пару шагов.\n\n%s",
		common.Escape(registeredUser.DisplayName()), menuText)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"/start - Главное меню\n" +
		"/book - Записаться на услугу\n" +
		"/mybookings - Мои записи\n" +
		"/cancel - Отменить текущее действие\n" +
		"/help - Показать эту справку\n\n" +
		"Запись идёт по шагам: услуга → дата → время → ваши данные. " +
		"Зачёркнутое время уже занято."

	if update.Message.From != nil && h.isAdmin(update.Message.From.ID) {
		helpText += "\n\n<b>Администратору</b>\n/admin - Услуги, часы работы, выходные и записи"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleBook обрабатывает команду /book: мастер записи с первого шага
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text, kb, err := client.BeginBooking(ctx, h.deps, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to begin booking",
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text, kb, err := client.MyBookingsScreen(ctx, h.deps, chatID)
	h.sendView(ctx, b, chatID, "my_bookings", text, kb, err)
}

// HandleAdmin обрабатывает команду /admin
func (h *Handlers) HandleAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.stateManager.ResetDialog(update.Message.From.ID)
	text, kb := admin.MenuScreen()
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога и записи
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	w := h.stateManager.Wizard(telegramID)
	step := w.Step()

	if currentState == state.StateNone && (step == wizard.StepSelectService || step == wizard.StepConfirmed) {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ResetDialog(telegramID)
	if !h.stateManager.DropWizard(telegramID) {
		h.logger.Warn("Wizard is submitting, cancel ignored",
			zap.Int64("telegram_id", telegramID),
			zap.String("wizard_id", w.ID()))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(wizard.ErrSubmitInProgress))
		return
	}

	h.logger.Info("Dialog cancelled",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)),
		zap.String("wizard_step", step.String()))

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /book, чтобы записаться, или /help для справки.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return

	// Клиент
	case state.StateEnteringName:
		h.handleClientName(ctx, b, update)
	case state.StateEnteringPhone:
		h.handleClientPhone(ctx, b, update)

	// Администратор
	case state.StateServiceName, state.StateServiceDuration, state.StateServiceImage,
		state.StateEditServiceName, state.StateEditServiceDuration, state.StateEditServiceImage,
		state.StateHoursInput, state.StateBlockedDate,
		state.StateFilterDate, state.StateFilterTime, state.StateFilterSearch:
		if !h.requireAdmin(ctx, b, update) {
			h.stateManager.ResetDialog(telegramID)
			return
		}
		h.handleAdminInput(ctx, b, update, currentState)

	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
