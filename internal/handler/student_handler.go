package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// StudentHandler wires the per-student views: eligibility and suggestions.
type StudentHandler struct {
	eligibility service.EligibilityService
	suggestions service.SuggestionService
	logger      zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(eligibility service.EligibilityService, suggestions service.SuggestionService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		eligibility: eligibility,
		suggestions: suggestions,
		logger:      logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/:studentId/eligibility", h.getEligibility)
	router.Get("/:studentId/suggestions", h.getSuggestions)
}

func (h *StudentHandler) getEligibility(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("studentId"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	result, err := h.eligibility.CanAdvanceToTerm2(c.Context(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "eligibility computed", result)
}

func (h *StudentHandler) getSuggestions(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("studentId"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	term := parseQueryInt(c, "term")
	if term < 1 {
		term = 1
	}

	result, err := h.suggestions.ForStudent(c.Context(), studentID, term)
	if err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no grade record for this student and term")
		}
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "suggestions computed", result)
}

func (h *StudentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
