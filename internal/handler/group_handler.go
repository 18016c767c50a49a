package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// GroupHandler wires topic group endpoints.
type GroupHandler struct {
	service service.GroupService
	logger  zerolog.Logger
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(service service.GroupService, logger zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		logger:  logger.With().Str("component", "group_handler").Logger(),
	}
}

// Register attaches group routes to the router group.
func (h *GroupHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/members", h.addMembers)
	router.Delete("/:id/members/:userId", h.removeMember)
}

func (h *GroupHandler) create(c *fiber.Ctx) error {
	var payload dto.GroupCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		case errors.Is(err, service.ErrCommunityArchived):
			return utils.SendError(c, fiber.StatusForbidden, "community is archived")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create group")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create group")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}

func (h *GroupHandler) get(c *fiber.Ctx) error {
	group, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch group")
	}

	return utils.SendSuccess(c, "group retrieved", group)
}

func (h *GroupHandler) addMembers(c *fiber.Ctx) error {
	var payload dto.GroupMembersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.AddMembers(c.Context(), c.Params("id"), payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add group members")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add members")
		}
	}

	return utils.SendSuccess(c, "members added", group)
}

func (h *GroupHandler) removeMember(c *fiber.Ctx) error {
	group, err := h.service.RemoveMember(c.Context(), c.Params("id"), c.Params("userId"), activityActorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove group member")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove member")
	}

	return utils.SendSuccess(c, "member removed", group)
}
