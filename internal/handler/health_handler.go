package handler

import (
	"context"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const serviceName = "reviflow-backend"

// Pinger is satisfied by the database handle.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness. Dependency failures are logged but do not
// fail the probe.
type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags platform
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			logger.Get().Warn("Database ping failed", zap.Error(err))
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache ping failed", zap.Error(err))
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Service: serviceName})
}
