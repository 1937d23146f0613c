package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nextdink/api/internal/database"
)

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db database.Database
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db database.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = http.StatusServiceUnavailable
	}

	WriteJSON(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}
