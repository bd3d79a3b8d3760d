package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// MaintenanceHandler exposes the dataset cleanup operation.
type MaintenanceHandler struct {
	cleanup service.CleanupService
	logger  zerolog.Logger
}

// NewMaintenanceHandler constructs the handler.
func NewMaintenanceHandler(cleanup service.CleanupService, logger zerolog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		cleanup: cleanup,
		logger:  logger.With().Str("component", "maintenance_handler").Logger(),
	}
}

// Register attaches maintenance endpoints to the router group. All routes
// are expected to be mounted behind the teacher-only guard.
func (h *MaintenanceHandler) Register(router fiber.Router) {
	router.Post("/cleanup", h.runCleanup)
}

func (h *MaintenanceHandler) runCleanup(c *fiber.Ctx) error {
	result, err := h.cleanup.Run(c.Context(), activityActorFromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("cleanup run failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "cleanup completed", result)
}
