package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dmx-editor/controller"
	"dmx-editor/session"
)

type syncResponse struct {
	OK     bool              `json:"ok"`
	Status string            `json:"status"`
	Tally  *controller.Tally `json:"tally,omitempty"`
	State  session.State     `json:"state"`
}

func (h *handler) getConfig(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Settings())
}

// putConfig merges the submitted fields into the current settings. The
// long-press time may arrive as a number or as raw form text.
func (h *handler) putConfig(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Polarity      *string         `json:"footSwitchPolarity"`
		LongPressTime json.RawMessage `json:"footSwitchLongPressTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	next := s.Settings()
	if req.Polarity != nil {
		p, err := controller.ParsePolarity(*req.Polarity)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.FootSwitchPolarity = p
	}
	if len(req.LongPressTime) > 0 {
		next.FootSwitchLongPressTime = controller.ParseLongPress(rawValue(req.LongPressTime))
	}

	stored, err := s.UpdateSettings(next)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *handler) load(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	status, err := s.Load(r.Context(), h.syncer, confirmed)
	if errors.Is(err, session.ErrUnsavedChanges) {
		http.Error(w, "unsaved changes would be lost; retry with confirm=true", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Warn("load from controller failed",
			"session_id", s.ID,
			"status", status,
			"error", err)
	} else {
		h.logger.Info("loaded presets from controller", "session_id", s.ID, "status", status)
	}
	writeJSON(w, http.StatusOK, syncResponse{
		OK:     err == nil,
		Status: status,
		State:  s.Snapshot(),
	})
}

func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	tally := s.Save(r.Context(), h.syncer)
	if !tally.OK() {
		h.logger.Warn("save to controller incomplete",
			"session_id", s.ID,
			"sent", tally.Sent,
			"failed", tally.Failed)
	} else {
		h.logger.Info("saved presets to controller", "session_id", s.ID, "sent", tally.Sent)
	}
	writeJSON(w, http.StatusOK, syncResponse{
		OK:     tally.OK(),
		Status: tally.Status(),
		Tally:  &tally,
		State:  s.Snapshot(),
	})
}
