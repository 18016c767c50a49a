package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// AdminSettingsHandler wires platform settings and role management endpoints.
type AdminSettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewAdminSettingsHandler constructs the handler.
func NewAdminSettingsHandler(service service.SettingsService, logger zerolog.Logger) *AdminSettingsHandler {
	return &AdminSettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_settings_handler").Logger(),
	}
}

// Register attaches settings routes to the router group.
func (h *AdminSettingsHandler) Register(router fiber.Router) {
	router.Get("/settings", h.getSettings)
	router.Put("/settings", h.updateSettings)
	router.Get("/roles", h.listRoles)
	router.Post("/roles", h.createRole)
	router.Patch("/roles/:id", h.updateRole)
	router.Delete("/roles/:id", h.deleteRole)
}

func (h *AdminSettingsHandler) getSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch settings")
	}

	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *AdminSettingsHandler) updateSettings(c *fiber.Ctx) error {
	var payload dto.SettingsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	settings, err := h.service.Update(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	return utils.SendSuccess(c, "settings updated", settings)
}

func (h *AdminSettingsHandler) listRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list roles")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list roles")
	}

	return utils.SendSuccess(c, "roles retrieved", roles)
}

func (h *AdminSettingsHandler) createRole(c *fiber.Ctx) error {
	var payload dto.RoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.CreateRole(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNameTaken):
			return utils.SendError(c, fiber.StatusConflict, "role name already taken")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create role")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create role")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "role created", role)
}

func (h *AdminSettingsHandler) updateRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role id")
	}

	var payload dto.RoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.UpdateRole(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "role not found")
		case errors.Is(err, service.ErrRoleNameTaken):
			return utils.SendError(c, fiber.StatusConflict, "role name already taken")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update role")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update role")
		}
	}

	return utils.SendSuccess(c, "role updated", role)
}

func (h *AdminSettingsHandler) deleteRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role id")
	}

	if err := h.service.DeleteRole(c.Context(), id, activityActorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "role not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete role")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete role")
	}

	return utils.SendSuccess(c, "role deleted", fiber.Map{"deleted": true})
}
