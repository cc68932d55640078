package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Menu
// ========================

// HandleMenu открывает админ-панель
func HandleMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		text, kb := MenuScreen()
		common.Render(hc, text, kb, "")
	})
}

// show отрисовывает экран, загруженный view-функцией
func show(hc *common.HandlerContext, operation string, answer string, view func() (string, *models.InlineKeyboardMarkup, error)) {
	text, kb, err := view()
	if err != nil {
		common.HandleError(hc, err, operation)
		return
	}
	common.Render(hc, text, kb, answer)
}

// ========================
// Services
// ========================

// HandleServices список услуг
func HandleServices(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ResetDialog()
		show(hc, "list_services", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return ServicesView(hc.Ctx, h)
		})
	})
}

// HandleServiceView карточка услуги
func HandleServiceView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.ResetDialog()
		show(hc, "view_service", "", func() (string, *models.InlineKeyboardMarkup, error) {
			return ServiceCard(hc.Ctx, h, id)
		})
	})
}

// HandleServiceNew начинает создание услуги: название → длительность → картинка
func HandleServiceNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.SetState(callbacktypes.UserState(state.StateServiceName))

		h.Logger.Info("Starting service creation", zap.Int64("telegram_id", hc.TelegramID))

		text, kb := PromptScreen("➕ <b>Новая услуга</b>\n\nШаг 1 из 3. "+PromptServiceName, Services)
		common.Render(hc, text, kb, "")
	})
}

// HandleServiceEdit запрашивает новое значение поля услуги
func HandleServiceEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		svc, err := h.CatalogService.Get(hc.Ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_service")
			return
		}

		var (
			next   state.UserState
			prompt string
		)
		switch {
		case strings.HasPrefix(callback.Data, ServiceEditName):
			next, prompt = state.StateEditServiceName, PromptServiceName
		case strings.HasPrefix(callback.Data, ServiceEditDuration):
			next, prompt = state.StateEditServiceDuration, PromptServiceDuration
		default:
			next, prompt = state.StateEditServiceImage, PromptServiceImage
		}

		hc.SetData(KeyServiceID, svc.ID)
		hc.SetState(callbacktypes.UserState(next))

		text, kb := PromptScreen(fmt.Sprintf("✏️ <b>%s</b>\n\n%s", common.Escape(svc.Name), prompt),
			ServiceView+strconv.FormatInt(svc.ID, 10))
		common.Render(hc, text, kb, "")
	})
}

// HandleServiceDelete спрашивает подтверждение удаления
func HandleServiceDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		svc, err := h.CatalogService.Get(hc.Ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_service")
			return
		}

		text, kb := ServiceDeleteScreen(svc)
		common.Render(hc, text, kb, "")
	})
}

// HandleServiceDeleteConfirm удаляет услугу
func HandleServiceDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		if err := h.CatalogService.Delete(hc.Ctx, id); err != nil {
			common.HandleError(hc, err, "delete_service")
			return
		}

		show(hc, "list_services", "🗑 Услуга удалена", func() (string, *models.InlineKeyboardMarkup, error) {
			return ServicesView(hc.Ctx, h)
		})
	})
}
