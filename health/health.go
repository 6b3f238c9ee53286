// Package health serves liveness and dependency health endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/logger"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Pinger is anything that can report whether it is reachable. *db.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response is the body of GET /health.
type Response struct {
	Status string `json:"status" example:"healthy"`
}

// DetailsResponse is the body of GET /health/details.
type DetailsResponse struct {
	Status         string `json:"status" example:"healthy"`
	DatabaseStatus string `json:"database_status" example:"healthy"`
	UptimeSeconds  int64  `json:"uptime_seconds" example:"3600"`
	Version        string `json:"version,omitempty" example:"1.0.0"`
}

// Handler serves the health endpoints.
type Handler struct {
	db          Pinger
	version     string
	started     time.Time
	pingTimeout time.Duration
	now         func() time.Time
}

// NewHandler creates a Handler. Uptime is counted from this call.
func NewHandler(db Pinger, version string) *Handler {
	return &Handler{
		db:          db,
		version:     version,
		started:     time.Now(),
		pingTimeout: 2 * time.Second,
		now:         time.Now,
	}
}

// RegisterRoutes mounts /health and /health/details on router.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/health/details", h.HandleDetails)
}

// HandleHealth godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperror.WriteJSON(w, http.StatusOK, Response{Status: statusHealthy})
}

// HandleDetails godoc
// @Summary Dependency health
// @Description Pings the database. Responds 503 when it is unreachable.
// @Tags health
// @Produce json
// @Success 200 {object} DetailsResponse
// @Failure 503 {object} DetailsResponse
// @Router /health/details [get]
func (h *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	resp := DetailsResponse{
		Status:         statusHealthy,
		DatabaseStatus: statusHealthy,
		UptimeSeconds:  int64(h.now().Sub(h.started).Seconds()),
		Version:        h.version,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logger.From(r.Context()).Error("database health check failed", logger.Component("health"), logger.Err(err))
		resp.Status = statusUnhealthy
		resp.DatabaseStatus = statusUnhealthy
		apperror.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, resp)
}
