package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/Freeeeeet/booking_bot/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Booking Wizard Handlers
// ========================

// BeginBooking сбрасывает мастер и возвращает экран выбора услуги
func BeginBooking(ctx context.Context, h *callbacktypes.Handler, telegramID int64) (string, *models.InlineKeyboardMarkup, error) {
	w := h.StateManager.Wizard(telegramID)
	if err := w.Reset(); err != nil {
		return "", nil, err
	}
	h.StateManager.ResetDialog(telegramID)

	services, err := h.CatalogService.List(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("list services: %w", err)
	}

	h.Logger.Info("Booking started",
		zap.Int64("telegram_id", telegramID),
		zap.String("wizard_id", w.ID()))

	text, kb := ServicesScreen(services)
	return text, kb, nil
}

// HandleStartBooking "Записаться" и "Записаться ещё"
func HandleStartBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BeginBooking(hc.Ctx, h, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "begin_booking")
			return
		}
		common.Render(hc, text, kb, "")
	})
}

// HandleSelectService шаг 1 → 2
func HandleSelectService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		serviceID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		svc, err := h.CatalogService.Get(hc.Ctx, serviceID)
		if err != nil {
			common.HandleError(hc, err, "get_service")
			return
		}

		w := hc.Wizard()
		if err := rewind(hc, w, wizard.StepSelectService); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		err = w.SelectService(*svc)
		observe(hc, wizard.StepSelectService, err)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		showDatePicker(hc, w, 0, "💇 "+svc.Name)
	})
}

// HandleDatePage листает окно выбора даты по неделям
func HandleDatePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, DatePage)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		offset, err := strconv.Atoi(param)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		w := hc.Wizard()
		if err := rewind(hc, w, wizard.StepSelectDate); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		showDatePicker(hc, w, offset, "")
	})
}

// HandleSelectDate шаг 2 → 3: выбор даты и загрузка слотов
func HandleSelectDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, SelectDate)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		date, err := availability.ParseDate(param)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		w := hc.Wizard()
		if err := rewind(hc, w, wizard.StepSelectDate); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		openDate(hc, w, date)
	})
}

// HandleSelectTime шаг 3 → 4
func HandleSelectTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		param, err := common.ParamFromCallback(callback.Data, SelectTime)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		slot, err := availability.ParseTimeOfDay(param)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		w := hc.Wizard()
		if err := rewind(hc, w, wizard.StepSelectTime); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		err = w.SelectTime(slot)
		observe(hc, wizard.StepSelectTime, err)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		askName(hc, w)
	})
}

// HandleReminder сохраняет ответ про напоминание и показывает итог
func HandleReminder(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		w := hc.Wizard()
		if err := w.SetReminder(callback.Data == ReminderYes); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		if !w.CanSubmit() {
			// данные не заполнены, например после "Изменить данные"
			askName(hc, w)
			return
		}

		text, kb := SummaryScreen(w.Snapshot())
		common.Render(hc, text, kb, "")
	})
}

// HandleEditDetails заново запрашивает имя и телефон
func HandleEditDetails(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		w := hc.Wizard()
		if w.Step() != wizard.StepEnterDetails {
			hc.AnswerAlert(common.ErrorMessage(common.ErrScreenOutdated))
			return
		}
		askName(hc, w)
	})
}

// HandleSubmit шаг 4 → 5: создание записи
func HandleSubmit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		w := hc.Wizard()

		appt, err := w.Submit(hc.Ctx, h.BookingService)
		observe(hc, wizard.StepEnterDetails, err)

		switch {
		case err == nil:
		case errors.Is(err, wizard.ErrAlreadySubmitted):
			if st := w.Snapshot(); st.Appointment != nil {
				text, kb := ConfirmedScreen(st.Appointment, h.BusinessWhatsApp)
				common.Render(hc, text, kb, common.ErrorMessage(err))
				return
			}
			hc.Answer(common.ErrorMessage(err))
			return
		case errors.Is(err, wizard.ErrSubmitInProgress):
			hc.Answer(common.ErrorMessage(err))
			return
		case errors.Is(err, repository.ErrSlotTaken),
			errors.Is(err, wizard.ErrSlotUnavailable),
			errors.Is(err, wizard.ErrDateNotBookable):
			h.Logger.Info("Submitted slot is no longer available",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.String("wizard_id", w.ID()),
				zap.Error(err))
			hc.AnswerAlert(common.ErrorMessage(err))
			reopenCurrentDate(hc, w)
			return
		case errors.Is(err, repository.ErrServiceGone):
			h.Logger.Info("Submitted service was deleted",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.String("wizard_id", w.ID()))
			text, kb, beginErr := BeginBooking(hc.Ctx, h, hc.TelegramID)
			if beginErr != nil {
				common.HandleError(hc, beginErr, "begin_booking")
				return
			}
			if editErr := hc.EditMessage(text, kb); editErr != nil {
				common.HandleError(hc, editErr, "render")
				return
			}
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		default:
			common.HandleError(hc, err, "submit_appointment")
			return
		}

		hc.ResetDialog()
		// Мастер выполнил свою работу; повторное нажатие получит новый мастер
		hc.DropWizard()
		h.Logger.Info("Appointment booked",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("wizard_id", w.ID()),
			zap.Int64("appointment_id", appt.ID))

		text, kb := ConfirmedScreen(appt, h.BusinessWhatsApp)
		common.Render(hc, text, kb, "✅ Запись создана")
	})
}

// HandleBack возвращает на предыдущий шаг мастера
func HandleBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		w := hc.Wizard()
		if err := w.Back(); err != nil {
			if errors.Is(err, wizard.ErrCannotGoBack) && w.Step() == wizard.StepSelectService {
				// с первого шага назад значит в главное меню
				common.HandleBackToMain(hc)
				return
			}
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.ResetDialog()
		renderStep(hc, w)
	})
}

// ========================
// Helpers
// ========================

// rewind подстраивает мастер под экран, с которого нажата кнопка.
// Пользователь может нажать кнопку в старом сообщении, поэтому мастер
// откатывается назад с сохранением выбора, вперёд переходить нельзя.
func rewind(hc *common.HandlerContext, w *wizard.Wizard, target wizard.Step) error {
	if w.Step() == wizard.StepConfirmed {
		if target != wizard.StepSelectService {
			return common.ErrScreenOutdated
		}
		if err := w.Reset(); err != nil {
			return err
		}
	}
	if w.Step() == wizard.StepEnterDetails && target < wizard.StepEnterDetails {
		hc.ResetDialog()
	}
	for w.Step() > target {
		if err := w.Back(); err != nil {
			return err
		}
	}
	if w.Step() < target {
		return common.ErrScreenOutdated
	}
	return nil
}

func observe(hc *common.HandlerContext, step wizard.Step, err error) {
	hc.Handler.Metrics.ObserveWizard(step.String(), err == nil)
}

func today(hc *common.HandlerContext) time.Time {
	return availability.StartOfDay(hc.Now())
}

// showDatePicker показывает 14 дней начиная с недели offset
func showDatePicker(hc *common.HandlerContext, w *wizard.Wizard, offset int, answer string) {
	offset = max(0, min(offset, MaxWeekOffset))

	days, err := hc.Handler.BookingService.Calendar(hc.Ctx, today(hc).AddDate(0, 0, offset*7), DatePickerDays)
	if err != nil {
		common.HandleError(hc, err, "calendar")
		return
	}

	st := w.Snapshot()
	text, kb := DatePickerScreen(st.Service, days, offset, st.Date)
	common.Render(hc, text, kb, answer)
}

// openDate выбирает дату и загружает слоты.
// Если пока шла загрузка пользователь выбрал другую дату, результат отбрасывается.
func openDate(hc *common.HandlerContext, w *wizard.Wizard, date time.Time) {
	schedule, err := hc.Handler.BookingService.Schedule(hc.Ctx)
	if err != nil {
		common.HandleError(hc, err, "load_schedule")
		return
	}

	ticket, err := w.SelectDate(date, schedule, hc.Now())
	observe(hc, wizard.StepSelectDate, err)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	day, err := hc.Handler.BookingService.DayAvailability(hc.Ctx, ticket.Date)
	if err != nil {
		common.HandleError(hc, err, "day_availability")
		return
	}

	if !w.ApplyDay(ticket, day.Slots) {
		hc.Handler.Logger.Debug("Discarding stale day availability",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("date", availability.FormatDate(ticket.Date)))
		hc.Answer("")
		return
	}

	text, kb := TimeGridScreen(w.Snapshot())
	common.Render(hc, text, kb, "")
}

// reopenCurrentDate перечитывает слоты выбранной даты после отказа в записи
func reopenCurrentDate(hc *common.HandlerContext, w *wizard.Wizard) {
	st := w.Snapshot()
	if st.Date == nil {
		return
	}
	hc.ResetDialog()
	for w.Step() > wizard.StepSelectDate {
		if err := w.Back(); err != nil {
			hc.Handler.Logger.Warn("Failed to rewind wizard", zap.Error(err))
			return
		}
	}

	schedule, err := hc.Handler.BookingService.Schedule(hc.Ctx)
	if err != nil {
		hc.Handler.Logger.Error("Failed to load schedule", zap.Error(err))
		return
	}
	if !availability.IsDateBookable(*st.Date, schedule, hc.Now()) {
		showDatePicker(hc, w, 0, "")
		return
	}
	ticket, err := w.SelectDate(*st.Date, schedule, hc.Now())
	if err != nil {
		hc.Handler.Logger.Warn("Failed to reselect date", zap.Error(err))
		return
	}
	day, err := hc.Handler.BookingService.DayAvailability(hc.Ctx, ticket.Date)
	if err != nil {
		hc.Handler.Logger.Error("Failed to reload day availability", zap.Error(err))
		return
	}
	if w.ApplyDay(ticket, day.Slots) {
		text, kb := TimeGridScreen(w.Snapshot())
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Handler.Logger.Error("Failed to render time grid", zap.Error(err))
		}
	}
}

// askName переводит чат в ввод имени
func askName(hc *common.HandlerContext, w *wizard.Wizard) {
	hc.SetState(callbacktypes.UserState(state.StateEnteringName))
	text, kb := NamePrompt(w.Snapshot())
	common.Render(hc, text, kb, "")
}

// renderStep показывает экран текущего шага
func renderStep(hc *common.HandlerContext, w *wizard.Wizard) {
	st := w.Snapshot()
	switch st.Step {
	case wizard.StepSelectService:
		services, err := hc.Handler.CatalogService.List(hc.Ctx)
		if err != nil {
			common.HandleError(hc, err, "list_services")
			return
		}
		text, kb := ServicesScreen(services)
		common.Render(hc, text, kb, "")
	case wizard.StepSelectDate:
		offset := 0
		if st.Date != nil {
			offset = int(st.Date.Sub(today(hc)).Hours()/24) / 7
		}
		showDatePicker(hc, w, offset, "")
	case wizard.StepSelectTime:
		text, kb := TimeGridScreen(st)
		common.Render(hc, text, kb, "")
	case wizard.StepEnterDetails:
		askName(hc, w)
	default:
		hc.Answer("")
	}
}
