package handlers

import (
	"context"

	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MetricsHandler struct {
	metricsService *services.MetricsService
	log            *zap.Logger
}

func NewMetricsHandler(metricsService *services.MetricsService, log *zap.Logger) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, log: log}
}

// RefreshMine re-reads the caller's Telegram channel stats right away.
func (h *MetricsHandler) RefreshMine(c *fiber.Ctx) error {
	profile, err := h.metricsService.RefreshCreator(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

// RefreshAll starts a full refresh in the background; it outlives the request.
func (h *MetricsHandler) RefreshAll(c *fiber.Ctx) error {
	go func() {
		n, err := h.metricsService.RefreshCreatorMetrics(context.Background())
		if err != nil {
			h.log.Error("metrics refresh failed", zap.Error(err))
			return
		}
		h.log.Info("metrics refreshed", zap.Int("creators", n))
	}()
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{OK: true})
}
