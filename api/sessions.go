package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dmx-editor/session"
)

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.List())
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.manager.Create(req.Name)
	if err != nil {
		if errors.Is(err, session.ErrNameTaken) {
			http.Error(w, "session name already in use", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	h.logger.Info("session created", "session_id", s.ID, "name", s.Name)
	writeJSON(w, http.StatusCreated, s.Info())
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handler) removeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.manager.Remove(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to remove session", http.StatusInternalServerError)
		return
	}
	h.logger.Info("session removed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}
