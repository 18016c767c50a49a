package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/repository"
)

// ErrGroupNotFound indicates the group id does not exist.
var ErrGroupNotFound = errors.New("group not found")

// GroupService manages topic groups beyond the ones created alongside a
// community.
type GroupService interface {
	Create(ctx context.Context, creatorID string, payload dto.GroupCreateRequest) (dto.GroupResponse, error)
	Get(ctx context.Context, groupID string) (dto.GroupResponse, error)
	AddMembers(ctx context.Context, groupID string, payload dto.GroupMembersRequest, actor ActivityActor) (dto.GroupResponse, error)
	RemoveMember(ctx context.Context, groupID, userID string, actor ActivityActor) (dto.GroupResponse, error)
}

type groupService struct {
	groups      repository.GroupRepository
	communities repository.CommunityRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewGroupService constructs the group service.
func NewGroupService(groups repository.GroupRepository, communities repository.CommunityRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) GroupService {
	return &groupService{
		groups:      groups,
		communities: communities,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "group_service").Logger(),
	}
}

func (s *groupService) Create(ctx context.Context, creatorID string, payload dto.GroupCreateRequest) (dto.GroupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GroupResponse{}, err
	}

	community, err := s.communities.GetByCommunityID(ctx, payload.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GroupResponse{}, ErrCommunityNotFound
		}
		return dto.GroupResponse{}, err
	}
	if community.Archived {
		return dto.GroupResponse{}, ErrCommunityArchived
	}

	existing, err := s.groups.ListByCommunity(ctx, community.CommunityID)
	if err != nil {
		return dto.GroupResponse{}, err
	}

	group := models.Group{
		GroupID:     uuid.NewString(),
		CommunityID: community.CommunityID,
		Name:        payload.Name,
		TopicIndex:  len(existing),
		Admin:       creatorID,
		Members:     encodeMembers([]string{creatorID}),
	}
	if err := s.groups.Create(ctx, &group); err != nil {
		return dto.GroupResponse{}, err
	}

	s.recordActivity(ctx, ActivityActor{ID: creatorID}, "group.create", group)

	return dto.NewGroupResponse(group), nil
}

func (s *groupService) Get(ctx context.Context, groupID string) (dto.GroupResponse, error) {
	group, err := s.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GroupResponse{}, ErrGroupNotFound
		}
		return dto.GroupResponse{}, err
	}
	return dto.NewGroupResponse(group), nil
}

func (s *groupService) AddMembers(ctx context.Context, groupID string, payload dto.GroupMembersRequest, actor ActivityActor) (dto.GroupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GroupResponse{}, err
	}

	group, err := s.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GroupResponse{}, ErrGroupNotFound
		}
		return dto.GroupResponse{}, err
	}

	members := decodeMembers(group.Members)
	for _, userID := range payload.UserIDs {
		members, _ = addMember(members, userID)
	}
	group.Members = encodeMembers(members)

	if err := s.groups.SetMembers(ctx, groupID, group.Members); err != nil {
		return dto.GroupResponse{}, err
	}

	s.recordActivity(ctx, actor, "group.members.add", group)

	return dto.NewGroupResponse(group), nil
}

func (s *groupService) RemoveMember(ctx context.Context, groupID, userID string, actor ActivityActor) (dto.GroupResponse, error) {
	group, err := s.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GroupResponse{}, ErrGroupNotFound
		}
		return dto.GroupResponse{}, err
	}

	members, removed := removeMember(decodeMembers(group.Members), userID)
	if removed {
		group.Members = encodeMembers(members)
		if err := s.groups.SetMembers(ctx, groupID, group.Members); err != nil {
			return dto.GroupResponse{}, err
		}
	}

	s.recordActivity(ctx, actor, "group.members.remove", group)

	return dto.NewGroupResponse(group), nil
}

func (s *groupService) recordActivity(ctx context.Context, actor ActivityActor, action string, group models.Group) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "group",
		EntityID:   group.GroupID,
		Metadata: map[string]interface{}{
			"community_id": group.CommunityID,
			"name":         group.Name,
		},
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
