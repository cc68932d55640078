package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// Экраны, которым нужны данные. Используются и callback-обработчиками,
// и текстовыми диалогами после ввода.

// ServicesView список услуг
func ServicesView(ctx context.Context, h *callbacktypes.Handler) (string, *models.InlineKeyboardMarkup, error) {
	services, err := h.CatalogService.List(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("list services: %w", err)
	}
	text, kb := ServicesScreen(services)
	return text, kb, nil
}

// ServiceCard карточка услуги
func ServiceCard(ctx context.Context, h *callbacktypes.Handler, id int64) (string, *models.InlineKeyboardMarkup, error) {
	svc, err := h.CatalogService.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	text, kb := ServiceScreen(svc)
	return text, kb, nil
}

// HoursView недельное расписание
func HoursView(ctx context.Context, h *callbacktypes.Handler) (string, *models.InlineKeyboardMarkup, error) {
	schedule, err := h.ScheduleService.Editable(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load schedule: %w", err)
	}
	text, kb := HoursScreen(schedule)
	return text, kb, nil
}

// DayView расписание дня недели
func DayView(ctx context.Context, h *callbacktypes.Handler, wd time.Weekday) (string, *models.InlineKeyboardMarkup, error) {
	schedule, err := h.ScheduleService.Editable(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load schedule: %w", err)
	}
	text, kb := DayScreen(wd, schedule)
	return text, kb, nil
}

// BlockedView выходные даты
func BlockedView(ctx context.Context, h *callbacktypes.Handler) (string, *models.InlineKeyboardMarkup, error) {
	schedule, err := h.ScheduleService.Editable(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load schedule: %w", err)
	}
	text, kb := BlockedScreen(schedule)
	return text, kb, nil
}

// AppointmentsView таблица записей по сохранённым фильтрам администратора
func AppointmentsView(ctx context.Context, h *callbacktypes.Handler, telegramID int64) (string, *models.InlineKeyboardMarkup, error) {
	q := LoadQuery(h.StateManager, telegramID)

	appointments, err := h.AdminService.ListAppointments(ctx, q.Filter(), q.Period)
	if err != nil {
		return "", nil, err
	}
	text, kb := AppointmentsScreen(appointments, q)
	return text, kb, nil
}

// AppointmentCard карточка записи
func AppointmentCard(ctx context.Context, h *callbacktypes.Handler, id int64) (string, *models.InlineKeyboardMarkup, error) {
	a, err := h.AdminService.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	text, kb := AppointmentScreen(a)
	return text, kb, nil
}
