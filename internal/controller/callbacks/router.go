package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == keyboard.NoopData:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == keyboard.BackToMainData:
		common.WithContext(ctx, b, callback, h, common.HandleBackToMain)

	// ===== Client: Booking Wizard =====
	case data == client.StartBooking, data == client.BookAnother:
		client.HandleStartBooking(ctx, b, callback, h)
	case data == client.MyBookings:
		client.HandleMyBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, client.SelectService):
		client.HandleSelectService(ctx, b, callback, h)
	case strings.HasPrefix(data, client.DatePage):
		client.HandleDatePage(ctx, b, callback, h)
	case strings.HasPrefix(data, client.SelectDate):
		client.HandleSelectDate(ctx, b, callback, h)
	case strings.HasPrefix(data, client.SelectTime):
		client.HandleSelectTime(ctx, b, callback, h)
	case data == client.ReminderYes, data == client.ReminderNo:
		client.HandleReminder(ctx, b, callback, h)
	case data == client.EditDetails:
		client.HandleEditDetails(ctx, b, callback, h)
	case data == client.SubmitBooking:
		client.HandleSubmit(ctx, b, callback, h)
	case data == client.WizardBack:
		client.HandleBack(ctx, b, callback, h)

	// ===== Admin: Menu & Services =====
	case data == admin.Menu:
		admin.HandleMenu(ctx, b, callback, h)
	case data == admin.Services:
		admin.HandleServices(ctx, b, callback, h)
	case data == admin.ServiceNew:
		admin.HandleServiceNew(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.ServiceView):
		admin.HandleServiceView(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.ServiceEditName),
		strings.HasPrefix(data, admin.ServiceEditDuration),
		strings.HasPrefix(data, admin.ServiceEditImage):
		admin.HandleServiceEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.ServiceDeleteConfirm):
		admin.HandleServiceDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.ServiceDelete):
		admin.HandleServiceDelete(ctx, b, callback, h)

	// ===== Admin: Schedule =====
	case data == admin.Hours:
		admin.HandleHours(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.Day):
		admin.HandleDay(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.DaySet):
		admin.HandleDaySet(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.DayClose):
		admin.HandleDayClose(ctx, b, callback, h)
	case data == admin.Blocked:
		admin.HandleBlocked(ctx, b, callback, h)
	case data == admin.BlockAdd:
		admin.HandleBlockAdd(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.Unblock):
		admin.HandleUnblock(ctx, b, callback, h)

	// ===== Admin: Appointments =====
	case data == admin.Appointments:
		admin.HandleAppointments(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.AppointmentsPage):
		admin.HandleAppointmentsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.FilterPeriod):
		admin.HandleFilterPeriod(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.FilterStatus):
		admin.HandleFilterStatus(ctx, b, callback, h)
	case data == admin.FilterServiceMenu:
		admin.HandleFilterServiceMenu(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.FilterServicePick):
		admin.HandleFilterServicePick(ctx, b, callback, h)
	case data == admin.FilterDate, data == admin.FilterTime, data == admin.FilterSearch:
		admin.HandleFilterInput(ctx, b, callback, h)
	case data == admin.FilterReset:
		admin.HandleFilterReset(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.Appointment):
		admin.HandleAppointment(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.AppointmentConfirm):
		admin.HandleAppointmentConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.AppointmentCancel):
		admin.HandleAppointmentCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.AppointmentDelOK):
		admin.HandleAppointmentDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.AppointmentDelete):
		admin.HandleAppointmentDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, admin.Week):
		admin.HandleWeek(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "⚠️ Неизвестная команда")
	}
}
