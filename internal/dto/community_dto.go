package dto

import (
	"encoding/json"
	"time"

	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
)

// CommunityCreateRequest captures the community creation payload. The
// structured fields arrive as JSON strings in a multipart form alongside
// the picture uploads and are decoded by the handler.
type CommunityCreateRequest struct {
	Name          string                              `json:"name" validate:"required,min=3,max=100"`
	Description   string                              `json:"description" validate:"omitempty,max=5000"`
	Topics        []string                            `json:"topics" validate:"required,min=1,dive,min=1"`
	Privacy       string                              `json:"privacy,omitempty" validate:"omitempty,oneof=public private"`
	Rules         string                              `json:"rules" validate:"omitempty,max=10000"`
	Roles         []string                            `json:"roles" validate:"required,min=1,dive,min=1"`
	RoleQuestions map[string][]questionnaire.Question `json:"questions" validate:"omitempty"`
	TopicAccess   map[string][]string                 `json:"topic_access" validate:"omitempty"`
}

// CommunityUpdateRequest captures partial community updates.
type CommunityUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Privacy     *string `json:"privacy" validate:"omitempty,oneof=public private"`
	Rules       *string `json:"rules" validate:"omitempty,max=10000"`
}

// CommunityResponse serializes a community document.
type CommunityResponse struct {
	ID             uint                                `json:"id"`
	CommunityID    string                              `json:"community_id"`
	Name           string                              `json:"name"`
	Description    string                              `json:"description"`
	Topics         []string                            `json:"topics"`
	Privacy        string                              `json:"privacy"`
	Rules          string                              `json:"rules"`
	Roles          []string                            `json:"roles"`
	RoleQuestions  map[string][]questionnaire.Question `json:"questions"`
	ProfilePicture string                              `json:"profile_picture"`
	TopicPictures  map[string]string                   `json:"topic_pictures"`
	Members        []string                            `json:"members"`
	Archived       bool                                `json:"archived"`
	CreatedAt      time.Time                           `json:"created_at"`
	UpdatedAt      time.Time                           `json:"updated_at"`
}

// NewCommunityResponse converts a community model into a DTO.
func NewCommunityResponse(community models.Community) CommunityResponse {
	roleQuestions := map[string][]questionnaire.Question{}
	if len(community.Questions) > 0 {
		_ = json.Unmarshal(community.Questions, &roleQuestions)
	}

	return CommunityResponse{
		ID:             community.ID,
		CommunityID:    community.CommunityID,
		Name:           community.Name,
		Description:    community.Description,
		Topics:         stringSliceFromJSON(community.Topics),
		Privacy:        community.Privacy,
		Rules:          community.Rules,
		Roles:          stringSliceFromJSON(community.Roles),
		RoleQuestions:  roleQuestions,
		ProfilePicture: community.ProfilePicture,
		TopicPictures:  stringMapFromJSON(community.TopicPictures),
		Members:        stringSliceFromJSON(community.Members),
		Archived:       community.Archived,
		CreatedAt:      community.CreatedAt,
		UpdatedAt:      community.UpdatedAt,
	}
}

// CommunityListRequest defines filters for listing communities.
type CommunityListRequest struct {
	Page     int
	PageSize int
	Search   string
	Privacy  string
	Archived *bool
	Sort     string
}

// CommunityListResponse wraps a paginated community listing.
type CommunityListResponse struct {
	Items      []CommunityResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// RoleQuestionsResponse exposes the join questionnaire for one role.
type RoleQuestionsResponse struct {
	CommunityID string                   `json:"community_id"`
	Role        string                   `json:"role"`
	Questions   []questionnaire.Question `json:"questions"`
}

// GroupCreateRequest adds an extra topic group to an existing community.
type GroupCreateRequest struct {
	CommunityID string `json:"community_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
}

// GroupMembersRequest adds users to a topic group.
type GroupMembersRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,min=1"`
}

// GroupResponse serializes a topic group.
type GroupResponse struct {
	ID          uint      `json:"id"`
	GroupID     string    `json:"group_id"`
	CommunityID string    `json:"community_id"`
	Name        string    `json:"name"`
	TopicIndex  int       `json:"topic_index"`
	Admin       string    `json:"admin"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewGroupResponse converts a group model into a DTO.
func NewGroupResponse(group models.Group) GroupResponse {
	return GroupResponse{
		ID:          group.ID,
		GroupID:     group.GroupID,
		CommunityID: group.CommunityID,
		Name:        group.Name,
		TopicIndex:  group.TopicIndex,
		Admin:       group.Admin,
		Members:     stringSliceFromJSON(group.Members),
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
