package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// RankingHandler wires the leaderboard routes.
type RankingHandler struct {
	service service.RankingService
	logger  zerolog.Logger
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service service.RankingService, logger zerolog.Logger) *RankingHandler {
	return &RankingHandler{
		service: service,
		logger:  logger.With().Str("component", "ranking_handler").Logger(),
	}
}

// Register attaches ranking endpoints to the router group.
func (h *RankingHandler) Register(router fiber.Router) {
	router.Get("/term/:term", h.byTerm)
	router.Get("/combined", h.combined)
}

func (h *RankingHandler) byTerm(c *fiber.Ctx) error {
	term, err := parseIntParam(c, "term")
	if err != nil || term < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid term")
	}

	ranking, err := h.service.RankByTerm(c.Context(), term)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "ranking computed", ranking)
}

func (h *RankingHandler) combined(c *fiber.Ctx) error {
	ranking, err := h.service.RankCombined(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "ranking computed", ranking)
}

func (h *RankingHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
