package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// ActivityHandler serves the audit trail feed.
type ActivityHandler struct {
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(activity service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity endpoints to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	filter := repository.ActivityLogFilter{
		Limit:      parseQueryInt(c, "limit"),
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
	}

	entries, err := h.activity.List(c.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity log")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "activity log fetched", entries)
}
