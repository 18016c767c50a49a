package dto

import (
	"time"

	"github.com/communix/communix-api/internal/models"
)

// SettingsUpdateRequest replaces the platform configuration document.
type SettingsUpdateRequest struct {
	Values map[string]interface{} `json:"values" validate:"required"`
}

// SettingsResponse serializes the platform configuration document.
type SettingsResponse struct {
	Values    map[string]interface{} `json:"values"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewSettingsResponse converts the settings model into a DTO.
func NewSettingsResponse(setting models.Setting) SettingsResponse {
	return SettingsResponse{
		Values:    mapFromJSONMap(setting.Values),
		UpdatedAt: setting.UpdatedAt,
	}
}

// RoleCreateRequest defines a new platform role.
type RoleCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=64"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,min=1"`
}

// RoleUpdateRequest patches a platform role definition.
type RoleUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=64"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,min=1"`
}

// RoleResponse serializes a platform role definition.
type RoleResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRoleResponse converts a role model into a DTO.
func NewRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: stringSliceFromJSON(role.Permissions),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// ActivityListRequest defines filters for retrieving activity logs.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    string
	Action     string
	EntityType string
}

// ActivityResponse serializes an activity log entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts an activity log model into a DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   mapFromJSONMap(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}

// ActivityListResponse wraps paginated activity logs.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
