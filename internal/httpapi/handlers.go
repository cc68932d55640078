package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const readyTimeout = 2 * time.Second

type handler struct {
	logger       *zap.Logger
	catalog      Catalog
	availability Availability
	feed         Subscriber
	readyChecks  map[string]ReadyCheck
}

type serviceView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	ImageURL string `json:"image_url,omitempty"`
}

type slotView struct {
	Time     string `json:"time"`
	Reserved bool   `json:"reserved"`
}

type dayView struct {
	Date     string     `json:"date"`
	Bookable bool       `json:"bookable"`
	Slots    []slotView `json:"slots"`
}

func newDayView(day *service.Day) dayView {
	view := dayView{
		Date:     availability.FormatDate(day.Date),
		Bookable: day.Bookable,
		Slots:    make([]slotView, 0, len(day.Slots)),
	}
	for _, s := range day.Slots {
		view.Slots = append(view.Slots, slotView{Time: s.Time.String(), Reserved: s.Reserved})
	}
	return view
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.readyChecks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		h.logger.Warn("Readiness check failed", zap.Any("failed", failed))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load services")
		return
	}

	views := make([]serviceView, 0, len(services))
	for _, s := range services {
		views = append(views, serviceView{ID: s.ID, Name: s.Name, Duration: s.Duration, ImageURL: s.ImageURL})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) dayAvailability(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(w, r)
	if !ok {
		return
	}

	day, err := h.availability.DayAvailability(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to compute availability",
			zap.String("date", availability.FormatDate(date)),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load availability")
		return
	}
	writeJSON(w, http.StatusOK, newDayView(day))
}

func parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := availability.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
