package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// DashboardHandler serves the aggregated classroom analytics view.
type DashboardHandler struct {
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.getSummary)
}

func (h *DashboardHandler) getSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build dashboard summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "dashboard summary", summary)
}
