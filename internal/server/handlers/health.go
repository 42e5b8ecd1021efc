package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/eventz/internal/server/storage"
	"github.com/iudanet/eventz/pkg/api"
)

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	responder
	db      storage.Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, db storage.Pinger, version string) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger},
		db:        db,
		version:   version,
	}
}

// Health обрабатывает GET /health.
// Недоступность БД дает 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check: database unavailable", slog.Any("error", err))
		h.sendJSON(w, api.HealthResponse{
			Status:   "error",
			Database: "disconnected",
			Version:  h.version,
		}, http.StatusServiceUnavailable)
		return
	}

	h.sendJSON(w, api.HealthResponse{
		Status:   "ok",
		Database: "connected",
		Version:  h.version,
	}, http.StatusOK)
}
