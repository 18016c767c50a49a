package dto

import (
	"github.com/communix/communix-api/internal/questionnaire"
)

// SignupRequest captures the registration payload. Selections carry the
// in-progress onboarding questionnaire answers keyed by catalog index.
type SignupRequest struct {
	Name       string                   `json:"name" validate:"required,min=2,max=100"`
	Email      string                   `json:"email" validate:"required,email"`
	Password   string                   `json:"password" validate:"required,min=8,max=72"`
	Profession string                   `json:"profession" validate:"required,oneof=student professional"`
	Selections questionnaire.Selections `json:"answers" validate:"required"`
}

// LoginRequest captures login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a signed token plus the authenticated profile.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
