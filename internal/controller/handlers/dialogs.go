package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Client Details
// ========================

// handleClientName обрабатывает ввод имени в мастере записи
func (h *Handlers) handleClientName(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	w := h.stateManager.Wizard(telegramID)

	err := w.SetName(update.Message.Text)
	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrInvalidName):
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз:")
		return
	default:
		h.stateManager.ResetDialog(telegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.SetState(telegramID, state.StateEnteringPhone)

	text, kb := client.PhonePrompt(w.Snapshot())
	h.sendMessage(ctx, b, chatID, text, kb)
}

// handleClientPhone обрабатывает ввод телефона и спрашивает про напоминание
func (h *Handlers) handleClientPhone(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	w := h.stateManager.Wizard(telegramID)

	err := w.SetPhone(update.Message.Text)
	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrInvalidPhone):
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз:")
		return
	default:
		h.stateManager.ResetDialog(telegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ResetDialog(telegramID)

	h.logger.Info("Client details entered",
		zap.Int64("telegram_id", telegramID),
		zap.String("wizard_id", w.ID()))

	text, kb := client.ReminderScreen(w.Snapshot())
	h.sendMessage(ctx, b, chatID, text, kb)
}

// ========================
// Admin Input
// ========================

// handleAdminInput обрабатывает текстовый ввод в админ-панели
func (h *Handlers) handleAdminInput(ctx context.Context, b *bot.Bot, update *models.Update, current state.UserState) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	input := strings.TrimSpace(update.Message.Text)

	h.logger.Info("Processing admin input",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(current)))

	var err error
	switch current {
	case state.StateServiceName:
		err = h.createServiceName(ctx, b, chatID, telegramID, input)
	case state.StateServiceDuration:
		err = h.createServiceDuration(ctx, b, chatID, telegramID, input)
	case state.StateServiceImage:
		err = h.createServiceImage(ctx, b, chatID, telegramID, input)
	case state.StateEditServiceName, state.StateEditServiceDuration, state.StateEditServiceImage:
		err = h.editService(ctx, b, chatID, telegramID, current, input)
	case state.StateHoursInput:
		err = h.setDayHours(ctx, b, chatID, telegramID, input)
	case state.StateBlockedDate:
		err = h.blockDate(ctx, b, chatID, telegramID, input)
	case state.StateFilterDate, state.StateFilterTime, state.StateFilterSearch:
		err = h.applyFilter(ctx, b, chatID, telegramID, current, input)
	}

	if err == nil {
		return
	}

	// Ошибка ввода: остаёмся в том же состоянии и просим повторить
	if msg := inputErrorMessage(err); msg != "" {
		h.sendError(ctx, b, chatID, msg)
		return
	}
	if isValidationError(err) {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	h.logger.Error("Admin input failed",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(current)),
		zap.Error(err))
	h.stateManager.ResetDialog(telegramID)
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidServiceName) ||
		errors.Is(err, service.ErrInvalidDuration) ||
		errors.Is(err, service.ErrInvalidImageURL) ||
		errors.Is(err, service.ErrInvalidHours)
}

// ===== Services =====

func (h *Handlers) createServiceName(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) error {
	name, err := service.ValidateServiceName(input)
	if err != nil {
		return err
	}

	h.stateManager.SetData(telegramID, admin.KeyName, name)
	h.stateManager.SetState(telegramID, state.StateServiceDuration)

	text, kb := admin.PromptScreen(fmt.Sprintf("➕ <b>%s</b>\n\nШаг 2 из 3. %s", common.Escape(name), admin.PromptServiceDuration), admin.Services)
	h.sendMessage(ctx, b, chatID, text, kb)
	return nil
}

func (h *Handlers) createServiceDuration(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) error {
	minutes, err := ParseDuration(input)
	if err != nil {
		return err
	}

	h.stateManager.SetData(telegramID, admin.KeyDuration, minutes)
	h.stateManager.SetState(telegramID, state.StateServiceImage)

	text, kb := admin.PromptScreen(fmt.Sprintf("➕ Длительность: %s\n\nШаг 3 из 3. %s", formatting.FormatDuration(minutes), admin.PromptServiceImage), admin.Services)
	h.sendMessage(ctx, b, chatID, text, kb)
	return nil
}

func (h *Handlers) createServiceImage(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) error {
	name, okName := h.stateManager.GetData(telegramID, admin.KeyName)
	minutes, okDuration := h.stateManager.GetData(telegramID, admin.KeyDuration)
	if !okName || !okDuration {
		h.logger.Error("Missing data for service creation", zap.Int64("telegram_id", telegramID))
		h.stateManager.ResetDialog(telegramID)
		h.sendError(ctx, b, chatID, "❌ Данные не найдены. Начните заново через /admin")
		return nil
	}

	imageURL := input
	if isSkip(input) {
		imageURL = ""
	}

	svc, err := h.deps.CatalogService.Create(ctx, name.(string), minutes.(int), imageURL)
	if err != nil {
		return err
	}

	h.stateManager.ResetDialog(telegramID)

	text, kb := admin.ServiceScreen(svc)
	h.sendMessage(ctx, b, chatID, "✅ Услуга добавлена\n\n"+text, kb)
	return nil
}

func (h *Handlers) editService(ctx context.Context, b *bot.Bot, chatID, telegramID int64, current state.UserState, input string) error {
	idData, ok := h.stateManager.GetData(telegramID, admin.KeyServiceID)
	if !ok {
		h.stateManager.ResetDialog(telegramID)
		h.sendError(ctx, b, chatID, "❌ Данные не найдены. Начните заново через /admin")
		return nil
	}

	svc, err := h.deps.CatalogService.Get(ctx, idData.(int64))
	if err != nil {
		return err
	}

	name, duration, imageURL := svc.Name, svc.Duration, svc.ImageURL
	switch current {
	case state.StateEditServiceName:
		name = input
	case state.StateEditServiceDuration:
		if duration, err = ParseDuration(input); err != nil {
			return err
		}
	case state.StateEditServiceImage:
		imageURL = input
		if isSkip(input) {
			imageURL = ""
		}
	}

	updated, err := h.deps.CatalogService.Update(ctx, svc.ID, name, duration, imageURL)
	if err != nil {
		return err
	}

	h.stateManager.ResetDialog(telegramID)

	text, kb := admin.ServiceScreen(updated)
	h.sendMessage(ctx, b, chatID, "✅ Услуга обновлена\n\n"+text, kb)
	return nil
}

// ===== Schedule =====

func (h *Handlers) setDayHours(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) error {
	wdData, ok := h.stateManager.GetData(telegramID, admin.KeyWeekday)
	if !ok {
		h.stateManager.ResetDialog(telegramID)
		h.sendError(ctx, b, chatID, "❌ Данные не найдены. Начните заново через /admin")
		return nil
	}
	wd := wdData.(time.Weekday)

	if isSkip(input) {
		if err := h.deps.ScheduleService.CloseDay(ctx, wd); err != nil {
			return err
		}
	} else {
		ranges, err := ParseRanges(input)
		if err != nil {
			return err
		}
		if err := h.deps.ScheduleService.SetDayHours(ctx, wd, ranges); err != nil {
			return err
		}
	}

	h.stateManager.ResetDialog(telegramID)
	h.logger.Info("Working hours updated",
		zap.Int64("telegram_id", telegramID),
		zap.String("weekday", wd.String()))

	text, kb, err := admin.DayView(ctx, h.deps, wd)
	h.sendView(ctx, b, chatID, "view_day", "✅ Сохранено\n\n"+text, kb, err)
	return nil
}

func (h *Handlers) blockDate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, input string) error {
	date, err := ParseDate(input)
	if err != nil {
		return err
	}

	if err := h.deps.ScheduleService.BlockDate(ctx, date); err != nil {
		return err
	}

	h.stateManager.ResetDialog(telegramID)
	h.logger.Info("Date blocked",
		zap.Int64("telegram_id", telegramID),
		zap.Time("date", date))

	text, kb, err := admin.BlockedView(ctx, h.deps)
	h.sendView(ctx, b, chatID, "view_blocked", "✅ Дата закрыта для записи\n\n"+text, kb, err)
	return nil
}

// ===== Appointment Filters =====

func (h *Handlers) applyFilter(ctx context.Context, b *bot.Bot, chatID, telegramID int64, current state.UserState, input string) error {
	sm := h.deps.StateManager
	q := admin.LoadQuery(sm, telegramID)
	skip := isSkip(input)

	switch current {
	case state.StateFilterDate:
		q.Date = nil
		if !skip {
			date, err := ParseDate(input)
			if err != nil {
				return err
			}
			q.Date = &date
		}
	case state.StateFilterTime:
		q.Time = nil
		if !skip {
			t, err := ParseTime(input)
			if err != nil {
				return err
			}
			q.Time = &t
		}
	case state.StateFilterSearch:
		q.Search = ""
		if !skip {
			q.Search = input
		}
	}
	q.Page = 0

	admin.SaveQuery(sm, telegramID, q)
	h.stateManager.ResetDialog(telegramID)

	text, kb, err := admin.AppointmentsView(ctx, h.deps, telegramID)
	h.sendView(ctx, b, chatID, "list_appointments", text, kb, err)
	return nil
}
