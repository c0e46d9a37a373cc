package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dmx-editor/controller"
	"dmx-editor/preset"
	"dmx-editor/session"
)

func RegisterRoutes(manager *session.Manager, syncer session.Syncer, logger *slog.Logger, staticFS fs.FS) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{manager: manager, syncer: syncer, logger: logger}

	// Sessions
	r.Get("/api/sessions", h.listSessions)
	r.Post("/api/sessions", h.createSession)
	r.Get("/api/sessions/{id}", h.getSession)
	r.Delete("/api/sessions/{id}", h.removeSession)

	// WebSocket
	r.Get("/api/sessions/{id}/ws", h.handleWS)

	// Presets
	r.Route("/api/sessions/{id}/presets", func(r chi.Router) {
		r.Get("/", h.listPresets)
		r.Get("/{pid}", h.getPreset)
		r.Delete("/{pid}", h.deletePreset)
		r.Post("/{pid}/insert", h.insertPreset)
		r.Post("/{pid}/move", h.movePreset)
		r.Put("/{pid}/name", h.renamePreset)
		r.Put("/{pid}/{section}/{index}", h.setValue)
	})

	// Controller settings and sync
	r.Get("/api/sessions/{id}/config", h.getConfig)
	r.Put("/api/sessions/{id}/config", h.putConfig)
	r.Post("/api/sessions/{id}/load", h.load)
	r.Post("/api/sessions/{id}/save", h.save)

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// A dev FS already rooted at the static dir still answers fs.Sub, so
	// probe index.html to tell the two apart.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}

	// The editor is a single page; its client-side views share index.html.
	// http.FileServer would redirect a path ending in index.html, so the page
	// is read directly.
	index := serveFile(staticSub, "index.html")
	r.Get("/", index)
	r.Get("/config", index)
	r.Get("/preset/*", index)

	fileServer := http.FileServer(http.FS(staticSub))
	r.Get("/assets/*", fileServer.ServeHTTP)

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	manager *session.Manager
	syncer  session.Syncer
	logger  *slog.Logger
}

// session resolves the {id} URL parameter, writing a 404 when it is unknown.
func (h *handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, preset.ErrNotFound), errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, preset.ErrInvalidSection),
		errors.Is(err, preset.ErrInvalidDirection),
		errors.Is(err, preset.ErrChannelRange),
		errors.Is(err, preset.ErrInvalidKey),
		errors.Is(err, controller.ErrInvalidSetting):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrUnsavedChanges):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err))
	}
	http.Error(w, err.Error(), status)
}
