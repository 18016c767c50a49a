package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// AdminDashboardHandler wires the administrative dashboard endpoints.
type AdminDashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewAdminDashboardHandler constructs the handler.
func NewAdminDashboardHandler(service service.DashboardService, logger zerolog.Logger) *AdminDashboardHandler {
	return &AdminDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_dashboard_handler").Logger(),
	}
}

// Register attaches dashboard routes to the router group.
func (h *AdminDashboardHandler) Register(router fiber.Router) {
	router.Get("/metrics", h.metrics)
	router.Get("/user-growth", h.userGrowth)
	router.Get("/post-frequency", h.postFrequency)
}

func (h *AdminDashboardHandler) metrics(c *fiber.Ctx) error {
	response, err := h.service.Metrics(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute dashboard metrics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute metrics")
	}

	return utils.SendSuccess(c, "metrics retrieved", response)
}

func (h *AdminDashboardHandler) userGrowth(c *fiber.Ctx) error {
	days, err := parseQueryInt(c, "days")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid days")
	}

	response, err := h.service.UserGrowth(c.Context(), days)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute user growth")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute user growth")
	}

	return utils.SendSuccess(c, "user growth retrieved", response)
}

func (h *AdminDashboardHandler) postFrequency(c *fiber.Ctx) error {
	days, err := parseQueryInt(c, "days")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid days")
	}

	response, err := h.service.PostFrequency(c.Context(), days)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute post frequency")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute post frequency")
	}

	return utils.SendSuccess(c, "post frequency retrieved", response)
}
