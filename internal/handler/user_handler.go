package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// UserHandler wires account management routes. Teacher-only.
type UserHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.AuthService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches user management endpoints to the router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.CreateUser(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return utils.SendError(c, fiber.StatusConflict, "username already taken")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendCreated(c, "user created", user)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteUser(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrCannotDeleteAdmin):
			return utils.SendError(c, fiber.StatusForbidden, "the admin account cannot be deleted")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}

func (h *UserHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
