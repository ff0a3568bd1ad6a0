package upload

import (
	"accountant-assistant/internal/adapters/handlers/ws"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerV1 is the handler for v1 uploads routes
type HandlerV1 struct {
	registry       port.SessionRegistry
	hub            *ws.Hub
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewUploadHandlerV1 creates HandlerV1, hub may be nil to disable streaming
func NewUploadHandlerV1(registry port.SessionRegistry, hub *ws.Hub, logger *slog.Logger, maxUploadBytes int64) *HandlerV1 {
	return &HandlerV1{
		registry:       registry,
		hub:            hub,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", h.ListSurfacesV1)
		r.Get("/{surface}", h.GetSessionV1)
		r.Post("/{surface}", h.AddFilesV1)
		r.Delete("/{surface}", h.ClearSessionV1)
	})
	router.Get("/{surface}/ws", h.StreamSessionV1)

	return router
}

// session resolves the surface url param, writing a 404 when unknown
func (h *HandlerV1) session(w http.ResponseWriter, r *http.Request) (port.UploadSessionService, bool) {
	surface := domain.Surface(chi.URLParam(r, "surface"))
	session, err := h.registry.Session(surface)
	switch {
	case errors.Is(err, domain.ErrUnknownSurface):
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	case err != nil:
		h.logger.Error("error resolving upload session", "surface", surface, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	default:
		return session, true
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
