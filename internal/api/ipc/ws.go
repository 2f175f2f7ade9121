package ipc

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/converter"
)

const (
	// writeTimeout - таймаут записи одного события в WebSocket
	writeTimeout = 10 * time.Second
	// pingInterval - интервал keepalive-пингов клиенту
	pingInterval = 30 * time.Second
)

// upgrader конвертирует HTTP-запрос в WebSocket-соединение.
// CheckOrigin разрешает любые origins: кросс-доменная политика
// обеспечивается CORS-слоем на роутере.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamEvents отдает события изменения заметок через WebSocket.
// Каждое событие уходит отдельным Result-кадром {success: true, data: event},
// то есть и стриминговый канал соблюдает единый wire-контракт границы.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		h.fail(w, "stream_events", apperrors.New(apperrors.KindUnknown, apperrors.CodeUnknown, "event stream is not enabled"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам пишет HTTP-ответ об ошибке, нам остается залогировать
		h.log.Error().Str("op", "stream_events").Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := h.events.Subscribe()
	defer h.events.Unsubscribe(ch)

	h.log.Info().Str("op", "stream_events").Str("remote", r.RemoteAddr).Msg("event subscriber connected")

	// Читатель нужен только для обнаружения закрытия соединения клиентом
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-done:
			h.log.Info().Str("op", "stream_events").Str("remote", r.RemoteAddr).Msg("event subscriber disconnected")
			return

		case event, ok := <-ch:
			if !ok {
				return
			}

			result, err := successResult(converter.EventToAPI(event))
			if err != nil {
				h.log.Error().Str("op", "stream_events").Err(err).Msg("failed to encode event")
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(result); err != nil {
				h.log.Warn().Str("op", "stream_events").Err(err).Msg("failed to write event, closing")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
