package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	appLogger "github.com/spigell/talentscout/internal/logger"
)

const (
	wsReadTimeout  = 5 * time.Minute
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket carries one turn per frame. A frame is either a JSON object
// with a content field or the raw message text.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	current, err := h.svc.lastReply(sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := appLogger.WithSession(h.logger, sessionID)
	log.Debug("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	go pingLoop(ctx, conn)

	if err := writeFrame(conn, current); err != nil {
		return
	}
	if current.Done {
		closeNormal(conn)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		req, err := decodeTurn(framePayload(data))
		if err != nil {
			if err := writeFrame(conn, wsError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		turn, err := h.svc.Send(ctx, sessionID, req.Content)
		if err != nil {
			writeFrame(conn, wsError{Error: err.Error()})
			return
		}
		if err := writeFrame(conn, turn); err != nil {
			log.Warn("websocket write failed", zap.Error(err))
			return
		}
		if turn.Done {
			closeNormal(conn)
			return
		}
	}
}

func framePayload(data []byte) map[string]any {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err == nil {
			return payload
		}
	}
	return map[string]any{"content": trimmed}
}

func writeFrame(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(v)
}

func closeNormal(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "conversation finished")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
