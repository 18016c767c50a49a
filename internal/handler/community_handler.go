package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// CommunityHandler wires member-facing community endpoints.
type CommunityHandler struct {
	communities service.CommunityService
	memberships service.MembershipService
	logger      zerolog.Logger
}

// NewCommunityHandler constructs the handler.
func NewCommunityHandler(communities service.CommunityService, memberships service.MembershipService, logger zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{
		communities: communities,
		memberships: memberships,
		logger:      logger.With().Str("component", "community_handler").Logger(),
	}
}

// Register attaches community routes to the router group. Listing and
// reading communities is public; the questionnaire, group and join routes
// require an authenticated caller.
func (h *CommunityHandler) Register(router fiber.Router, auth fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/questions", auth, h.roleQuestions)
	router.Get("/:id/groups", auth, h.groups)
	router.Post("/:id/join", auth, h.join)
}

func (h *CommunityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	archived, err := parseBoolQuery(c, "archived")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid archived filter")
	}

	response, err := h.communities.List(c.Context(), dto.CommunityListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Privacy:  c.Query("privacy"),
		Archived: archived,
		Sort:     c.Query("sort"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list communities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list communities")
	}

	return utils.SendSuccess(c, "communities retrieved", response)
}

func (h *CommunityHandler) get(c *fiber.Ctx) error {
	community, err := h.communities.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch community")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch community")
	}

	return utils.SendSuccess(c, "community retrieved", community)
}

func (h *CommunityHandler) roleQuestions(c *fiber.Ctx) error {
	role := strings.TrimSpace(c.Query("role"))
	if role == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "role is required")
	}

	response, err := h.communities.RoleQuestions(c.Context(), c.Params("id"), role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		case errors.Is(err, questionnaire.ErrUnknownRole):
			return utils.SendError(c, fiber.StatusNotFound, "role not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch role questions")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch questions")
		}
	}

	return utils.SendSuccess(c, "questions retrieved", response)
}

func (h *CommunityHandler) groups(c *fiber.Ctx) error {
	groups, err := h.communities.Groups(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list groups")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list groups")
	}

	return utils.SendSuccess(c, "groups retrieved", groups)
}

func (h *CommunityHandler) join(c *fiber.Ctx) error {
	var payload dto.JoinRequestCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.memberships.Submit(c.Context(), c.Params("id"), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		case errors.Is(err, questionnaire.ErrUnknownRole):
			return utils.SendError(c, fiber.StatusNotFound, "role not found")
		case errors.Is(err, service.ErrCommunityArchived):
			return utils.SendError(c, fiber.StatusForbidden, "community is archived")
		case errors.Is(err, service.ErrAlreadyMember), errors.Is(err, service.ErrDuplicateJoinRequest):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit join request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit join request")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "join request submitted", response)
}
