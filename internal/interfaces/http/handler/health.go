package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	version     string
	checks      map[string]HealthCheck
	liveClients func() int
	timeout     time.Duration
}

// HealthOption configures a HealthHandler
type HealthOption func(*HealthHandler)

// WithCheck adds a named readiness check
func WithCheck(name string, check HealthCheck) HealthOption {
	return func(h *HealthHandler) { h.checks[name] = check }
}

// WithLiveClients reports the number of connected live feed clients
func WithLiveClients(count func() int) HealthOption {
	return func(h *HealthHandler) { h.liveClients = count }
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		version: version,
		checks:  make(map[string]HealthCheck),
		timeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthData
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	data := HealthData{Status: "ok", Version: h.version}
	if h.liveClients != nil {
		data.Clients = h.liveClients()
	}
	c.JSON(http.StatusOK, data)
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Checks the database and cache connections
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthData
// @Failure      503 {object} HealthData
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	data := HealthData{Status: "ok", Checks: make(map[string]string, len(names)), Version: h.version}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.GetGinLogger(c).Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			data.Checks[name] = "error"
			data.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		data.Checks[name] = "ok"
	}
	c.JSON(status, data)
}
