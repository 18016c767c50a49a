package dto

import (
	"encoding/json"
	"time"

	"github.com/communix/communix-api/internal/models"
)

// JoinRequestCreateRequest submits a membership application for a community.
type JoinRequestCreateRequest struct {
	Role    string              `json:"role" validate:"required,min=1,max=64"`
	Answers []models.JoinAnswer `json:"answers" validate:"required,dive"`
}

// JoinRequestResponse serializes a join request.
type JoinRequestResponse struct {
	ID          uint                `json:"id"`
	RequestID   string              `json:"request_id"`
	CommunityID string              `json:"community_id"`
	UserID      string              `json:"user_id"`
	Answers     []models.JoinAnswer `json:"answers"`
	Status      string              `json:"status"`
	Role        *string             `json:"role"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewJoinRequestResponse converts a join request model into a DTO.
func NewJoinRequestResponse(request models.JoinRequest) JoinRequestResponse {
	answers := []models.JoinAnswer{}
	if len(request.Answers) > 0 {
		_ = json.Unmarshal(request.Answers, &answers)
	}

	return JoinRequestResponse{
		ID:          request.ID,
		RequestID:   request.RequestID,
		CommunityID: request.CommunityID,
		UserID:      request.UserID,
		Answers:     answers,
		Status:      request.Status,
		Role:        request.Role,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

// JoinRequestListRequest defines filters for listing join requests.
type JoinRequestListRequest struct {
	Page        int
	PageSize    int
	CommunityID string
	UserID      string
	Status      string
}

// JoinRequestListResponse wraps a paginated join request listing.
type JoinRequestListResponse struct {
	Items      []JoinRequestResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}
