package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/internal/utils"
)

// ImportHandler wires bulk CSV import and export routes.
type ImportHandler struct {
	service service.ImportService
	logger  zerolog.Logger
}

// NewImportHandler constructs the handler.
func NewImportHandler(service service.ImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register attaches import/export endpoints. Import mutates; export is a
// read available to both roles.
func (h *ImportHandler) Register(router fiber.Router, teacherOnly fiber.Handler) {
	router.Post("/import", teacherOnly, h.importCSV)
	router.Get("/export", h.exportCSV)
}

func (h *ImportHandler) importCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read uploaded file")
	}

	result, err := h.service.ImportCSV(c.Context(), data, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFile):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, service.ErrEmptyImport):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("import failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "import completed", result)
}

func (h *ImportHandler) exportCSV(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("export failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="student_grades.csv"`)
	return c.Send(data)
}
