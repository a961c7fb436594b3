// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/ics"
	"github.com/planline-ai/event-pipeline/internal/middleware"
	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/internal/pipeline"
	"github.com/planline-ai/event-pipeline/internal/store"
	"github.com/planline-ai/event-pipeline/pkg/logger"
)

// ChatHandler handles per-chat pipeline and calendar endpoints.
type ChatHandler struct {
	pipeline *pipeline.Pipeline
	gateway  store.Gateway
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(p *pipeline.Pipeline, gw store.Gateway, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		pipeline: p,
		gateway:  gw,
		logger:   log,
	}
}

func chatID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "chatID")
	if err := middleware.ValidateChatID(id); err != nil {
		return "", err
	}
	return id, nil
}

// PostMessage handles POST /api/v1/chats/{chatID}/messages
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateTextContent(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply := h.pipeline.HandleMessage(ctx, id, req.Text)
	writeJSON(w, http.StatusOK, reply)
}

// PostTranscript handles POST /api/v1/chats/{chatID}/transcripts
//
// An empty or whitespace-only transcript is a producer failure (bad OCR,
// silent audio); the response is 422 with an actionable message rather than
// a validation error.
func (h *ChatHandler) PostTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		locale := h.gateway.UserLocale(ctx, id)
		writeJSON(w, http.StatusUnprocessableEntity, model.ChatReply{
			Reply: i18n.T(locale, i18n.KeyEmptyTranscript),
			State: model.StateIdle,
		})
		return
	}
	if err := middleware.ValidateTextContent(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("transcript received",
		zap.String("chat_id", id),
		zap.String("source", req.Source),
		zap.Int("length", len(req.Text)))

	reply := h.pipeline.HandleTranscript(ctx, id, req.Text)
	writeJSON(w, http.StatusOK, reply)
}

// PostAction handles POST /api/v1/chats/{chatID}/actions
func (h *ChatHandler) PostAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.pipeline.HandleAction(ctx, id, req.Action)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, "unknown action")
			return
		}
		h.logger.Error("action failed", zap.String("chat_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "action failed")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// ListEvents handles GET /api/v1/chats/{chatID}/events
func (h *ChatHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.gateway.ListEvents(ctx, id)
	if err != nil {
		h.logger.Error("failed to list events", zap.String("chat_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, model.ListEventsResponse{
		Events: events,
		Total:  len(events),
	})
}

// ExportCalendar handles GET /api/v1/chats/{chatID}/calendar.ics
func (h *ChatHandler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.gateway.ListEvents(ctx, id)
	if err != nil {
		h.logger.Error("failed to list events", zap.String("chat_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}

	doc, err := ics.Export(events, h.gateway.UserTimezone(ctx, id))
	if err != nil {
		h.logger.Error("failed to render calendar", zap.String("chat_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// ProfileRequest updates a chat's timezone and locale.
type ProfileRequest struct {
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
}

// PutProfile handles PUT /api/v1/chats/{chatID}/profile
func (h *ChatHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := chatID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, "unknown timezone")
			return
		}
	}

	if err := h.gateway.UpsertUser(ctx, id, req.Timezone, req.Locale); err != nil {
		h.logger.Error("failed to update profile", zap.String("chat_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
