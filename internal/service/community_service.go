package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/repository"
)

var (
	// ErrCommunityNotFound indicates no community exists for the identifier.
	ErrCommunityNotFound = errors.New("community not found")
	// ErrCommunityArchived indicates the community no longer accepts changes.
	ErrCommunityArchived = errors.New("community is archived")
	// ErrNotAnImage indicates an upload is not a supported image format.
	ErrNotAnImage = errors.New("upload must be an image")
	// ErrUploadTooLarge indicates an upload exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	// ErrUnknownTopicPicture indicates a picture references an undeclared topic.
	ErrUnknownTopicPicture = errors.New("topic picture references undeclared topic")
	// ErrSchemaViolation indicates the creation payload failed schema validation.
	ErrSchemaViolation = errors.New("payload failed schema validation")
)

// communityPayloadSchema structurally validates the decoded multipart
// creation payload before any uploads happen.
const communityPayloadSchema = `{
	"type": "object",
	"required": ["name", "topics", "roles"],
	"properties": {
		"name": {"type": "string", "minLength": 3, "maxLength": 100},
		"description": {"type": "string"},
		"topics": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
		"privacy": {"type": "string", "enum": ["public", "private"]},
		"rules": {"type": "string"},
		"roles": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
		"questions": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["text", "options"],
					"properties": {
						"text": {"type": "string", "minLength": 1},
						"options": {"type": "array", "items": {"type": "string"}}
					}
				}
			}
		},
		"topic_access": {
			"type": "object",
			"additionalProperties": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

// Upload is an in-memory file received from a multipart form.
type Upload struct {
	Name string
	Data []byte
}

// FileStorage uploads binary assets and returns their public URLs.
type FileStorage interface {
	Upload(ctx context.Context, container, name string, reader io.Reader) (string, error)
}

// CommunityService orchestrates community lifecycle use cases.
type CommunityService interface {
	Create(ctx context.Context, creatorID string, payload dto.CommunityCreateRequest, profilePicture *Upload, topicPictures map[string]Upload) (dto.CommunityResponse, error)
	Get(ctx context.Context, communityID string) (dto.CommunityResponse, error)
	List(ctx context.Context, req dto.CommunityListRequest) (dto.CommunityListResponse, error)
	Update(ctx context.Context, communityID string, payload dto.CommunityUpdateRequest, actor ActivityActor) (dto.CommunityResponse, error)
	Archive(ctx context.Context, communityID string, actor ActivityActor) (dto.CommunityResponse, error)
	Delete(ctx context.Context, communityID string, actor ActivityActor) error
	RoleQuestions(ctx context.Context, communityID, role string) (dto.RoleQuestionsResponse, error)
	Groups(ctx context.Context, communityID string) ([]dto.GroupResponse, error)
}

type communityService struct {
	communities   repository.CommunityRepository
	groups        repository.GroupRepository
	storage       FileStorage
	validator     *validator.Validate
	schema        *jsonschema.Schema
	sanitizer     *bluemonday.Policy
	activity      ActivityRecorder
	logger        zerolog.Logger
	tracer        trace.Tracer
	maxUploadSize int64
}

// NewCommunityService constructs the community service.
func NewCommunityService(communities repository.CommunityRepository, groups repository.GroupRepository, storage FileStorage, validate *validator.Validate, activity ActivityRecorder, maxUploadSize int64, logger zerolog.Logger) CommunityService {
	return &communityService{
		communities:   communities,
		groups:        groups,
		storage:       storage,
		validator:     validate,
		schema:        jsonschema.MustCompileString("community.json", communityPayloadSchema),
		sanitizer:     bluemonday.UGCPolicy(),
		activity:      activity,
		logger:        logger.With().Str("component", "community_service").Logger(),
		tracer:        otel.Tracer("github.com/communix/communix-api/internal/service/community"),
		maxUploadSize: maxUploadSize,
	}
}

func (s *communityService) Create(ctx context.Context, creatorID string, payload dto.CommunityCreateRequest, profilePicture *Upload, topicPictures map[string]Upload) (dto.CommunityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "community.create", trace.WithAttributes(
		attribute.String("community.creator", creatorID),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.CommunityResponse{}, err
	}
	if err := s.validateSchema(payload); err != nil {
		return dto.CommunityResponse{}, err
	}

	topics := trimAll(payload.Topics)
	roles := trimAll(payload.Roles)

	for topic := range topicPictures {
		if !containsString(topics, topic) {
			return dto.CommunityResponse{}, fmt.Errorf("%w: %s", ErrUnknownTopicPicture, topic)
		}
	}

	assembled, err := questionnaire.AssembleRoleQuestions(topics, payload.RoleQuestions, payload.TopicAccess)
	if err != nil {
		return dto.CommunityResponse{}, err
	}
	for _, role := range roles {
		if _, ok := assembled[role]; !ok {
			assembled[role] = []questionnaire.Question{{
				Text:    "Topic Access",
				Type:    questionnaire.TypeTopicAccess,
				Options: []string{},
			}}
		}
	}

	privacy := strings.ToLower(strings.TrimSpace(payload.Privacy))
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	profileURL := ""
	if profilePicture != nil {
		profileURL, err = s.uploadImage(ctx, "community-profile-pics", *profilePicture)
		if err != nil {
			return dto.CommunityResponse{}, err
		}
	}

	pictureURLs := map[string]string{}
	for topic, upload := range topicPictures {
		url, err := s.uploadImage(ctx, "topic-profile-pics", upload)
		if err != nil {
			return dto.CommunityResponse{}, err
		}
		pictureURLs[topic] = url
	}

	community := models.Community{
		CommunityID:    uuid.NewString(),
		Name:           strings.TrimSpace(payload.Name),
		Description:    s.sanitizer.Sanitize(payload.Description),
		Topics:         mustJSON(topics),
		Privacy:        privacy,
		Rules:          s.sanitizer.Sanitize(payload.Rules),
		Roles:          mustJSON(roles),
		Questions:      mustJSON(assembled),
		ProfilePicture: profileURL,
		TopicPictures:  mustJSON(pictureURLs),
		Members:        encodeMembers([]string{creatorID}),
	}

	groups := make([]models.Group, 0, len(topics))
	for i, topic := range topics {
		groups = append(groups, models.Group{
			GroupID:    uuid.NewString(),
			Name:       topic,
			TopicIndex: i,
			Admin:      creatorID,
			Members:    encodeMembers([]string{creatorID}),
		})
	}

	if err := s.communities.CreateWithGroups(ctx, &community, groups); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Msg("failed to create community")
		return dto.CommunityResponse{}, err
	}

	span.SetAttributes(attribute.String("community.id", community.CommunityID))
	s.logger.Info().Str("community_id", community.CommunityID).Int("groups", len(groups)).Msg("community created")

	s.recordActivity(ctx, ActivityActor{ID: creatorID, Role: models.RoleUser}, "community.create", community.CommunityID, nil)

	return dto.NewCommunityResponse(community), nil
}

func (s *communityService) Get(ctx context.Context, communityID string) (dto.CommunityResponse, error) {
	community, err := s.getCommunity(ctx, communityID)
	if err != nil {
		return dto.CommunityResponse{}, err
	}
	return dto.NewCommunityResponse(community), nil
}

func (s *communityService) List(ctx context.Context, req dto.CommunityListRequest) (dto.CommunityListResponse, error) {
	filter := repository.CommunityFilter{
		Search:   strings.TrimSpace(req.Search),
		Privacy:  strings.TrimSpace(req.Privacy),
		Archived: req.Archived,
		Sort:     req.Sort,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	communities, total, err := s.communities.List(ctx, filter)
	if err != nil {
		return dto.CommunityListResponse{}, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for _, community := range communities {
		responses = append(responses, dto.NewCommunityResponse(community))
	}

	return dto.CommunityListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(maxInt(req.Page, 1), req.PageSize, total),
	}, nil
}

func (s *communityService) Update(ctx context.Context, communityID string, payload dto.CommunityUpdateRequest, actor ActivityActor) (dto.CommunityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommunityResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		updates["description"] = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Privacy != nil {
		updates["privacy"] = strings.ToLower(strings.TrimSpace(*payload.Privacy))
	}
	if payload.Rules != nil {
		updates["rules"] = s.sanitizer.Sanitize(*payload.Rules)
	}
	if len(updates) == 0 {
		return s.Get(ctx, communityID)
	}

	community, err := s.communities.Update(ctx, communityID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommunityResponse{}, ErrCommunityNotFound
		}
		return dto.CommunityResponse{}, err
	}

	s.recordActivity(ctx, actor, "community.update", communityID, map[string]interface{}{"fields": len(updates)})

	return dto.NewCommunityResponse(community), nil
}

func (s *communityService) Archive(ctx context.Context, communityID string, actor ActivityActor) (dto.CommunityResponse, error) {
	community, err := s.communities.Update(ctx, communityID, map[string]interface{}{"archived": true})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommunityResponse{}, ErrCommunityNotFound
		}
		return dto.CommunityResponse{}, err
	}

	s.recordActivity(ctx, actor, "community.archive", communityID, nil)

	return dto.NewCommunityResponse(community), nil
}

func (s *communityService) Delete(ctx context.Context, communityID string, actor ActivityActor) error {
	if err := s.communities.Delete(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, "community.delete", communityID, nil)
	return nil
}

func (s *communityService) RoleQuestions(ctx context.Context, communityID, role string) (dto.RoleQuestionsResponse, error) {
	community, err := s.getCommunity(ctx, communityID)
	if err != nil {
		return dto.RoleQuestionsResponse{}, err
	}

	assembled := map[string][]questionnaire.Question{}
	if len(community.Questions) > 0 {
		if err := json.Unmarshal(community.Questions, &assembled); err != nil {
			return dto.RoleQuestionsResponse{}, err
		}
	}

	questions, err := questionnaire.ForRole(assembled, role)
	if err != nil {
		return dto.RoleQuestionsResponse{}, err
	}

	return dto.RoleQuestionsResponse{
		CommunityID: communityID,
		Role:        role,
		Questions:   questions,
	}, nil
}

func (s *communityService) Groups(ctx context.Context, communityID string) ([]dto.GroupResponse, error) {
	if _, err := s.getCommunity(ctx, communityID); err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, dto.NewGroupResponse(group))
	}
	return responses, nil
}

func (s *communityService) getCommunity(ctx context.Context, communityID string) (models.Community, error) {
	community, err := s.communities.GetByCommunityID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Community{}, ErrCommunityNotFound
		}
		return models.Community{}, err
	}
	return community, nil
}

func (s *communityService) validateSchema(payload dto.CommunityCreateRequest) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var document interface{}
	if err := json.Unmarshal(encoded, &document); err != nil {
		return err
	}

	if err := s.schema.Validate(document); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

// uploadImage gates an upload on size and detected content type before
// handing it to blob storage.
func (s *communityService) uploadImage(ctx context.Context, container string, upload Upload) (string, error) {
	if s.maxUploadSize > 0 && int64(len(upload.Data)) > s.maxUploadSize {
		return "", ErrUploadTooLarge
	}

	detected := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", fmt.Errorf("%w: got %s", ErrNotAnImage, detected.String())
	}

	return s.storage.Upload(ctx, container, upload.Name, bytes.NewReader(upload.Data))
}

func (s *communityService) recordActivity(ctx context.Context, actor ActivityActor, action, communityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "community",
		EntityID:   communityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return trimmed
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func mustJSON(value interface{}) datatypes.JSON {
	encoded, _ := json.Marshal(value)
	return datatypes.JSON(encoded)
}
