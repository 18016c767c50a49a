package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/service"
	"github.com/communix/communix-api/internal/utils"
)

// AdminCommunityHandler wires the administrative community endpoints.
type AdminCommunityHandler struct {
	communities service.CommunityService
	memberships service.MembershipService
	logger      zerolog.Logger
}

// NewAdminCommunityHandler constructs the handler.
func NewAdminCommunityHandler(communities service.CommunityService, memberships service.MembershipService, logger zerolog.Logger) *AdminCommunityHandler {
	return &AdminCommunityHandler{
		communities: communities,
		memberships: memberships,
		logger:      logger.With().Str("component", "admin_community_handler").Logger(),
	}
}

// Register attaches admin community routes to the router group.
func (h *AdminCommunityHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/archive", h.archive)
	router.Delete("/:id", h.delete)
}

// RegisterJoinRequests attaches admin join request routes to the router group.
func (h *AdminCommunityHandler) RegisterJoinRequests(router fiber.Router) {
	router.Get("", h.listJoinRequests)
	router.Get("/:id", h.getJoinRequest)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
}

// create accepts a multipart form: plain fields for name, description,
// privacy and rules; JSON-encoded fields for topics, roles, questions and
// topic_access; a profile_picture file and one topic_picture[<topic>] file
// per illustrated topic.
func (h *AdminCommunityHandler) create(c *fiber.Ctx) error {
	payload := dto.CommunityCreateRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: c.FormValue("description"),
		Privacy:     c.FormValue("privacy"),
		Rules:       c.FormValue("rules"),
	}

	if err := decodeFormJSON(c, "topics", &payload.Topics); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid topics field")
	}
	if err := decodeFormJSON(c, "roles", &payload.Roles); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid roles field")
	}
	if err := decodeFormJSON(c, "questions", &payload.RoleQuestions); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid questions field")
	}
	if err := decodeFormJSON(c, "topic_access", &payload.TopicAccess); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid topic_access field")
	}

	profilePicture, topicPictures, err := collectUploads(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid upload")
	}

	response, err := h.communities.Create(c.Context(), userIDFromContext(c), payload, profilePicture, topicPictures)
	if err != nil {
		switch {
		case isValidationError(err),
			errors.Is(err, service.ErrSchemaViolation),
			errors.Is(err, service.ErrNotAnImage),
			errors.Is(err, service.ErrUnknownTopicPicture),
			errors.Is(err, questionnaire.ErrUndeclaredTopic):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "upload exceeds size limit")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create community")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create community")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "community created", response)
}

func decodeFormJSON(c *fiber.Ctx, field string, target interface{}) error {
	value := strings.TrimSpace(c.FormValue(field))
	if value == "" {
		return nil
	}
	return json.Unmarshal([]byte(value), target)
}

// collectUploads pulls the profile picture and per-topic pictures out of
// the multipart form. Topic picture files use the key topic_picture[<topic>].
func collectUploads(c *fiber.Ctx) (*service.Upload, map[string]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body means no uploads.
		return nil, nil, nil
	}

	var profile *service.Upload
	topicPictures := map[string]service.Upload{}

	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}

		upload, err := readUpload(headers[0])
		if err != nil {
			return nil, nil, err
		}

		switch {
		case key == "profile_picture":
			profile = &upload
		case strings.HasPrefix(key, "topic_picture[") && strings.HasSuffix(key, "]"):
			topic := key[len("topic_picture[") : len(key)-1]
			topicPictures[topic] = upload
		}
	}

	return profile, topicPictures, nil
}

func readUpload(header *multipart.FileHeader) (service.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.Upload{}, err
	}

	return service.Upload{Name: header.Filename, Data: data}, nil
}

func (h *AdminCommunityHandler) list(c *fiber.Ctx) error {
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

func (h *AdminCommunityHandler) get(c *fiber.Ctx) error {
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

func (h *AdminCommunityHandler) update(c *fiber.Ctx) error {
	var payload dto.CommunityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	community, err := h.communities.Update(c.Context(), c.Params("id"), payload, activityActorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update community")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update community")
		}
	}

	return utils.SendSuccess(c, "community updated", community)
}

func (h *AdminCommunityHandler) archive(c *fiber.Ctx) error {
	community, err := h.communities.Archive(c.Context(), c.Params("id"), activityActorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to archive community")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to archive community")
	}

	return utils.SendSuccess(c, "community archived", community)
}

func (h *AdminCommunityHandler) delete(c *fiber.Ctx) error {
	if err := h.communities.Delete(c.Context(), c.Params("id"), activityActorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "community not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete community")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete community")
	}

	return utils.SendSuccess(c, "community deleted", fiber.Map{"deleted": true})
}

func (h *AdminCommunityHandler) listJoinRequests(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.memberships.List(c.Context(), dto.JoinRequestListRequest{
		Page:        page,
		PageSize:    pageSize,
		CommunityID: c.Query("community_id"),
		UserID:      c.Query("user_id"),
		Status:      c.Query("status"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list join requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list join requests")
	}

	return utils.SendSuccess(c, "join requests retrieved", response)
}

func (h *AdminCommunityHandler) getJoinRequest(c *fiber.Ctx) error {
	request, err := h.memberships.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrJoinRequestNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "join request not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch join request")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch join request")
	}

	return utils.SendSuccess(c, "join request retrieved", request)
}

func (h *AdminCommunityHandler) approve(c *fiber.Ctx) error {
	request, err := h.memberships.Approve(c.Context(), c.Params("id"), activityActorFromContext(c))
	if err != nil {
		return h.resolveError(c, err, "failed to approve join request")
	}

	return utils.SendSuccess(c, "join request approved", request)
}

func (h *AdminCommunityHandler) reject(c *fiber.Ctx) error {
	request, err := h.memberships.Reject(c.Context(), c.Params("id"), activityActorFromContext(c))
	if err != nil {
		return h.resolveError(c, err, "failed to reject join request")
	}

	return utils.SendSuccess(c, "join request rejected", request)
}

func (h *AdminCommunityHandler) resolveError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrJoinRequestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "join request not found")
	case errors.Is(err, service.ErrJoinRequestResolved):
		return utils.SendError(c, fiber.StatusConflict, "join request already resolved")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
