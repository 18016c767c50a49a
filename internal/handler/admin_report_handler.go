package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// AdminReportHandler wires the moderation queue endpoints.
type AdminReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewAdminReportHandler constructs the handler.
func NewAdminReportHandler(service service.ReportService, logger zerolog.Logger) *AdminReportHandler {
	return &AdminReportHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_report_handler").Logger(),
	}
}

// Register attaches moderation routes to the router group.
func (h *AdminReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:id/moderate", h.moderate)
}

func (h *AdminReportHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.Context(), dto.ReportListRequest{
		Page:     page,
		PageSize: pageSize,
		PostID:   c.Query("post_id"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list reports")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list reports")
	}

	return utils.SendSuccess(c, "reports retrieved", response)
}

func (h *AdminReportHandler) moderate(c *fiber.Ctx) error {
	var payload dto.ModerationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Moderate(c.Context(), c.Params("id"), payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "report not found")
		case errors.Is(err, service.ErrWarningMessageRequired),
			errors.Is(err, service.ErrUnknownModerationAction),
			isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to moderate report")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to moderate report")
		}
	}

	return utils.SendSuccess(c, "moderation applied", response)
}
