package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/feed"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamAvailability отдаёт доступность дня и пересылает новую версию
// при каждом снимке записей этой даты или изменении расписания
func (h *handler) streamAvailability(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Подписываемся до первой отправки, чтобы не пропустить изменения между ними
	sub, err := h.feed.Subscribe(ctx, feed.AppointmentsTopic(date), feed.TopicSchedule)
	if err != nil {
		h.logger.Error("Failed to subscribe to feed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "change feed unavailable")
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(
		zap.String("date", availability.FormatDate(date)),
		zap.String("request_id", r.Header.Get(requestIDHeader)))
	logger.Debug("Availability stream opened")

	// Читаем входящие кадры только ради pong и закрытия соединения
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.pushDay(ctx, conn, date, logger) {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Availability stream closed")
			return
		case _, ok := <-sub.C():
			if !ok {
				return
			}
			if !h.pushDay(ctx, conn, date, logger) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *handler) pushDay(ctx context.Context, conn *websocket.Conn, date time.Time, logger *zap.Logger) bool {
	day, err := h.availability.DayAvailability(ctx, date)
	if err != nil {
		logger.Error("Failed to compute streamed availability", zap.Error(err))
		return true
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(newDayView(day)); err != nil {
		logger.Debug("Availability stream write failed", zap.Error(err))
		return false
	}
	return true
}
