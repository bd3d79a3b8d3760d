package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// GradeHandler wires grade record CRUD and search routes.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches grade endpoints. teacherOnly guards the mutating routes;
// reads are open to both roles. Literal routes register before /:id.
func (h *GradeHandler) Register(router fiber.Router, teacherOnly fiber.Handler) {
	router.Get("/search", h.search)
	router.Get("/me", h.myGrades)
	router.Get("", h.list)
	router.Post("", teacherOnly, h.create)
	router.Delete("", teacherOnly, h.deleteBatch)
	router.Get("/:id", h.get)
	router.Patch("/:id", teacherOnly, h.update)
	router.Delete("/:id", teacherOnly, h.delete)
}

func (h *GradeHandler) list(c *fiber.Ctx) error {
	filter := repository.GradeFilter{
		Search:         strings.TrimSpace(c.Query("search")),
		ClassName:      strings.TrimSpace(c.Query("class")),
		Classification: strings.TrimSpace(c.Query("classification")),
		Term:           parseQueryInt(c, "term"),
	}

	grades, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "query parameter q is required")
	}

	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "search results", results)
}

func (h *GradeHandler) myGrades(c *fiber.Ctx) error {
	studentID := studentIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusForbidden, "no student id linked to this account")
	}

	grades, err := h.service.ListForStudent(c.Context(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grade, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "grade record not found")
		}
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradeHandler) create(c *fiber.Ctx) error {
	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendCreated(c, "grade created", grade)
}

func (h *GradeHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "grade updated", grade)
}

func (h *GradeHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "grade record not found")
		}
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "grade deleted", fiber.Map{"id": id})
}

func (h *GradeHandler) deleteBatch(c *fiber.Ctx) error {
	var payload dto.GradeBatchDeleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	deleted, err := h.service.DeleteBatch(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "grades deleted", fiber.Map{"deleted": deleted})
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade record not found")
	case errors.Is(err, catalog.ErrSubjectNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *GradeHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
