package dto

import (
	"encoding/json"
	"time"

	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
)

// UserResponse serializes a user profile. The password digest never leaves
// the persistence layer.
type UserResponse struct {
	ID                uint                      `json:"id"`
	UserID            string                    `json:"user_id"`
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	Profession        string                    `json:"profession"`
	Role              string                    `json:"role"`
	IsActive          bool                      `json:"is_active"`
	Banned            bool                      `json:"banned"`
	OnboardingAnswers []models.OnboardingAnswer `json:"onboarding_answers"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	answers := []models.OnboardingAnswer{}
	if len(user.OnboardingAnswers) > 0 {
		_ = json.Unmarshal(user.OnboardingAnswers, &answers)
	}

	return UserResponse{
		ID:                user.ID,
		UserID:            user.UserID,
		Name:              user.Name,
		Email:             user.Email,
		Profession:        user.Profession,
		Role:              user.Role,
		IsActive:          user.IsActive,
		Banned:            user.Banned,
		OnboardingAnswers: answers,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// UserUpdateRequest captures partial profile updates by the owner.
type UserUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Profession *string `json:"profession" validate:"omitempty,oneof=student professional"`
}

// ChangePasswordRequest captures a credential rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// OnboardingSubmitRequest resubmits onboarding answers for the caller.
type OnboardingSubmitRequest struct {
	Selections questionnaire.Selections `json:"answers" validate:"required"`
}

// OnboardingCatalogResponse exposes the question catalog for a profession.
type OnboardingCatalogResponse struct {
	Profession string                   `json:"profession"`
	Questions  []questionnaire.Question `json:"questions"`
}

// UserListRequest defines filters for listing users from the admin panel.
type UserListRequest struct {
	Page       int
	PageSize   int
	Search     string
	Role       string
	Profession string
	IsActive   *bool
	Sort       string
}

// UserListResponse wraps a paginated user listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// AdminUserUpdateRequest captures partial update payloads for users.
type AdminUserUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Profession *string `json:"profession" validate:"omitempty,oneof=student professional"`
	IsActive   *bool   `json:"is_active"`
}

// AssignRoleRequest sets the platform role of a user.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,min=2,max=64"`
}
