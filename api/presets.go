package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dmx-editor/preset"
	"dmx-editor/session"
)

type presetDetail struct {
	Preset preset.Preset `json:"preset"`
	Prev   int           `json:"prev,omitempty"`
	Next   int           `json:"next,omitempty"`
	Count  int           `json:"count"`
}

// presetTarget resolves both the session and the {pid} parameter.
func (h *handler) presetTarget(w http.ResponseWriter, r *http.Request) (*session.Session, int, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, 0, false
	}
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		http.Error(w, "preset not found", http.StatusNotFound)
		return nil, 0, false
	}
	return s, pid, true
}

func (h *handler) listPresets(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot().Presets)
}

func (h *handler) getPreset(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	p, prev, next, err := s.Preset(pid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presetDetail{Preset: p, Prev: prev, Next: next, Count: s.Info().Count})
}

func (h *handler) insertPreset(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	if err := s.Insert(pid); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handler) deletePreset(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	if err := s.Delete(pid); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handler) movePreset(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	dir, err := preset.ParseDirection(req.Direction)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := s.Move(pid, dir); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handler) renamePreset(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name, err := s.Rename(pid, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": pid, "name": name})
}

// setValue accepts either a raw value ({"value": "42"} or {"value": 42}),
// parsed and clamped, or a keypad entry ({"keys": ["1", "back", "clear"]})
// replayed on top of the current value.
func (h *handler) setValue(w http.ResponseWriter, r *http.Request) {
	s, pid, ok := h.presetTarget(w, r)
	if !ok {
		return
	}
	section, err := preset.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid channel index", http.StatusBadRequest)
		return
	}

	var req struct {
		Value json.RawMessage `json:"value"`
		Keys  []string        `json:"keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var stored uint8
	switch {
	case req.Keys != nil:
		stored, err = s.EnterKeys(pid, section, index, req.Keys)
	case len(req.Value) > 0:
		stored, err = s.SetValue(pid, section, index, rawValue(req.Value))
	default:
		http.Error(w, "value or keys required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      pid,
		"section": section,
		"index":   index,
		"value":   stored,
	})
}

// rawValue unwraps a JSON string and passes any other literal through as
// text, so both "42" and 42 reach the same parser.
func rawValue(msg json.RawMessage) string {
	var s string
	if bytes.HasPrefix(bytes.TrimSpace(msg), []byte(`"`)) && json.Unmarshal(msg, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(msg))
}
