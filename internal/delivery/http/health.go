package http

import (
	"context"
	"net/http"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	healthDatabaseConnected     = "connected"
	healthDatabaseNotConfigured = "not connected"
	healthDatabaseError         = "error"
	healthOpenAIConfigured      = "configured"
	healthOpenAINotConfigured   = "not configured"
)

func (h *HttpAPIHandler) health(c echo.Context) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Database:  h.databaseStatus(c.Request().Context()),
		OpenAI:    healthOpenAINotConfigured,
	}
	if h.cfg.OpenAI.Configured() {
		resp.OpenAI = healthOpenAIConfigured
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HttpAPIHandler) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return healthDatabaseNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "Database ping failed", logger.ErrorField(err))
		return healthDatabaseError
	}
	return healthDatabaseConnected
}
