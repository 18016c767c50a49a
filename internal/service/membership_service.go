package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/repository"
)

var (
	// ErrJoinRequestNotFound indicates no join request exists for the identifier.
	ErrJoinRequestNotFound = errors.New("join request not found")
	// ErrJoinRequestResolved indicates the request was already approved or rejected.
	ErrJoinRequestResolved = errors.New("join request already resolved")
	// ErrDuplicateJoinRequest indicates the user already has a pending request.
	ErrDuplicateJoinRequest = errors.New("a pending join request already exists")
	// ErrAlreadyMember indicates the user already belongs to the community.
	ErrAlreadyMember = errors.New("user is already a member")
)

// MembershipService handles join request submission and resolution.
type MembershipService interface {
	Submit(ctx context.Context, communityID, userID string, payload dto.JoinRequestCreateRequest) (dto.JoinRequestResponse, error)
	Get(ctx context.Context, requestID string) (dto.JoinRequestResponse, error)
	List(ctx context.Context, req dto.JoinRequestListRequest) (dto.JoinRequestListResponse, error)
	Approve(ctx context.Context, requestID string, actor ActivityActor) (dto.JoinRequestResponse, error)
	Reject(ctx context.Context, requestID string, actor ActivityActor) (dto.JoinRequestResponse, error)
}

type membershipService struct {
	requests    repository.JoinRequestRepository
	communities repository.CommunityRepository
	groups      repository.GroupRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewMembershipService constructs the membership service.
func NewMembershipService(requests repository.JoinRequestRepository, communities repository.CommunityRepository, groups repository.GroupRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) MembershipService {
	return &membershipService{
		requests:    requests,
		communities: communities,
		groups:      groups,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		logger:      logger.With().Str("component", "membership_service").Logger(),
	}
}

func (s *membershipService) Submit(ctx context.Context, communityID, userID string, payload dto.JoinRequestCreateRequest) (dto.JoinRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JoinRequestResponse{}, err
	}

	community, err := s.communities.GetByCommunityID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JoinRequestResponse{}, ErrCommunityNotFound
		}
		return dto.JoinRequestResponse{}, err
	}
	if community.Archived {
		return dto.JoinRequestResponse{}, ErrCommunityArchived
	}

	if containsString(decodeMembers(community.Members), userID) {
		return dto.JoinRequestResponse{}, ErrAlreadyMember
	}

	assembled := map[string][]questionnaire.Question{}
	if len(community.Questions) > 0 {
		if err := json.Unmarshal(community.Questions, &assembled); err != nil {
			return dto.JoinRequestResponse{}, err
		}
	}
	role := strings.TrimSpace(payload.Role)
	if _, err := questionnaire.ForRole(assembled, role); err != nil {
		return dto.JoinRequestResponse{}, err
	}

	pending, err := s.requests.PendingExists(ctx, communityID, userID)
	if err != nil {
		return dto.JoinRequestResponse{}, err
	}
	if pending {
		return dto.JoinRequestResponse{}, ErrDuplicateJoinRequest
	}

	answers := make([]models.JoinAnswer, 0, len(payload.Answers))
	for _, answer := range payload.Answers {
		answers = append(answers, models.JoinAnswer{
			Question: strings.TrimSpace(answer.Question),
			Answer:   strings.TrimSpace(s.sanitizer.Sanitize(answer.Answer)),
		})
	}

	request := models.JoinRequest{
		RequestID:   uuid.NewString(),
		CommunityID: communityID,
		UserID:      userID,
		Answers:     mustJSON(answers),
		Status:      models.JoinRequestPending,
		Role:        &role,
	}

	if err := s.requests.Create(ctx, &request); err != nil {
		s.logger.Error().Err(err).Msg("failed to create join request")
		return dto.JoinRequestResponse{}, err
	}

	return dto.NewJoinRequestResponse(request), nil
}

func (s *membershipService) Get(ctx context.Context, requestID string) (dto.JoinRequestResponse, error) {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JoinRequestResponse{}, ErrJoinRequestNotFound
		}
		return dto.JoinRequestResponse{}, err
	}
	return dto.NewJoinRequestResponse(request), nil
}

func (s *membershipService) List(ctx context.Context, req dto.JoinRequestListRequest) (dto.JoinRequestListResponse, error) {
	filter := repository.JoinRequestFilter{
		CommunityID: strings.TrimSpace(req.CommunityID),
		UserID:      strings.TrimSpace(req.UserID),
		Status:      strings.TrimSpace(req.Status),
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return dto.JoinRequestListResponse{}, err
	}

	responses := make([]dto.JoinRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewJoinRequestResponse(request))
	}

	return dto.JoinRequestListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(maxInt(req.Page, 1), req.PageSize, total),
	}, nil
}

// Approve flips a pending request to approved and enrolls the applicant in
// the community and in every topic group the requested role has access to.
// Concurrent moderators race on the conditional status update; the loser
// sees a conflict.
func (s *membershipService) Approve(ctx context.Context, requestID string, actor ActivityActor) (dto.JoinRequestResponse, error) {
	request, err := s.resolve(ctx, requestID, models.JoinRequestApproved)
	if err != nil {
		return dto.JoinRequestResponse{}, err
	}

	if err := s.enroll(ctx, request); err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to enroll approved member")
		return dto.JoinRequestResponse{}, err
	}

	s.recordActivity(ctx, actor, "join_request.approve", request)

	return dto.NewJoinRequestResponse(request), nil
}

func (s *membershipService) Reject(ctx context.Context, requestID string, actor ActivityActor) (dto.JoinRequestResponse, error) {
	request, err := s.resolve(ctx, requestID, models.JoinRequestRejected)
	if err != nil {
		return dto.JoinRequestResponse{}, err
	}

	s.recordActivity(ctx, actor, "join_request.reject", request)

	return dto.NewJoinRequestResponse(request), nil
}

func (s *membershipService) resolve(ctx context.Context, requestID, status string) (models.JoinRequest, error) {
	affected, err := s.requests.Resolve(ctx, requestID, status)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if affected == 0 {
		if _, err := s.requests.GetByRequestID(ctx, requestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.JoinRequest{}, ErrJoinRequestNotFound
			}
			return models.JoinRequest{}, err
		}
		return models.JoinRequest{}, ErrJoinRequestResolved
	}

	return s.requests.GetByRequestID(ctx, requestID)
}

func (s *membershipService) enroll(ctx context.Context, request models.JoinRequest) error {
	community, err := s.communities.GetByCommunityID(ctx, request.CommunityID)
	if err != nil {
		return err
	}

	members, added := addMember(decodeMembers(community.Members), request.UserID)
	if added {
		if err := s.communities.SetMembers(ctx, community.CommunityID, encodeMembers(members)); err != nil {
			return err
		}
	}

	granted := s.grantedTopics(community, request.Role)
	if len(granted) == 0 {
		return nil
	}

	groups, err := s.groups.ListByCommunity(ctx, community.CommunityID)
	if err != nil {
		return err
	}

	for _, group := range groups {
		if !containsString(granted, group.Name) {
			continue
		}
		groupMembers, changed := addMember(decodeMembers(group.Members), request.UserID)
		if !changed {
			continue
		}
		if err := s.groups.SetMembers(ctx, group.GroupID, encodeMembers(groupMembers)); err != nil {
			return err
		}
	}

	return nil
}

// grantedTopics reads the role's synthetic topic access question from the
// community questionnaire. A missing role or question grants nothing.
func (s *membershipService) grantedTopics(community models.Community, role *string) []string {
	if role == nil {
		return nil
	}

	assembled := map[string][]questionnaire.Question{}
	if len(community.Questions) > 0 {
		if err := json.Unmarshal(community.Questions, &assembled); err != nil {
			return nil
		}
	}

	sequence, ok := assembled[*role]
	if !ok {
		return nil
	}
	for _, question := range sequence {
		if question.Type == questionnaire.TypeTopicAccess {
			return question.Options
		}
	}
	return nil
}

func (s *membershipService) recordActivity(ctx context.Context, actor ActivityActor, action string, request models.JoinRequest) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "join_request",
		EntityID:   request.RequestID,
		Metadata: map[string]interface{}{
			"community_id": request.CommunityID,
			"user_id":      request.UserID,
		},
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
