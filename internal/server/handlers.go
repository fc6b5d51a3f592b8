package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/conversation"
)

const maxBodyBytes = 64 << 10

type createRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=en fr es de hi"`
}

type createResponse struct {
	ID      string            `json:"id"`
	Step    conversation.Step `json:"step"`
	Message string            `json:"message"`
}

// turnRequest is decoded from JSON bodies, forms and websocket frames alike.
type turnRequest struct {
	Content string `mapstructure:"content"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language %q", req.Language))
		return
	}

	turn := h.svc.Start(r.Context(), req.Language)
	respondJSON(w, http.StatusCreated, createResponse{ID: turn.SessionID, Step: turn.Step, Message: turn.Reply})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Snapshot(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeTurn(payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := h.svc.Send(r.Context(), chi.URLParam(r, "sessionID"), req.Content)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, turn)
}

// readPayload accepts either a JSON object or a url-encoded form.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errors.New("invalid form body")
		}
		payload := make(map[string]any, len(r.PostForm))
		for key := range r.PostForm {
			payload[key] = r.PostForm.Get(key)
		}
		return payload, nil
	default:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, errors.New("invalid request body")
		}
		return payload, nil
	}
}

func decodeTurn(payload map[string]any) (turnRequest, error) {
	var req turnRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(payload); err != nil {
		return req, fmt.Errorf("invalid message: %w", err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return req, errors.New("content is required")
	}
	return req, nil
}

func statusFor(err error) int {
	if errors.Is(err, ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
