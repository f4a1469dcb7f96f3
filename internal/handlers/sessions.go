package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/session"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/pkg/logging/logging"
)

type SessionHandler struct {
	Store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{Store: store}
}

type sessionRequest struct {
	Topic    string           `json:"topic"`
	LessonID string           `json:"lesson_id,omitempty"`
	Messages []map[string]any `json:"messages,omitempty"`
}

// Create handles POST /api/session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	sess, err := h.Store.Save(session.Session{
		Topic:    req.Topic,
		LessonID: req.LessonID,
		Messages: req.Messages,
	})
	if err != nil {
		logging.L(r.Context()).Error("session save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session save failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Update handles PUT /api/session/{id}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess, err := h.Store.Update(id, req.Topic, req.LessonID, req.Messages)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		logging.L(r.Context()).Error("session update failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session update failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Get handles GET /api/session/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := h.Store.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		logging.L(r.Context()).Error("session read failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session read failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// List handles GET /api/sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Store.List()
	if err != nil {
		logging.L(r.Context()).Error("session list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "session list failed")
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
