package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profession values accepted at signup.
const (
	ProfessionStudent      = "student"
	ProfessionProfessional = "professional"
)

// Platform-level role values.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OnboardingAnswer is one normalized entry of a completed onboarding
// questionnaire: the question text plus the selected options in order.
type OnboardingAnswer struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// User represents a platform account. Accounts are never hard-deleted;
// deactivation (is_active=false) is the terminal state.
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            string         `gorm:"size:128;uniqueIndex;not null" json:"user_id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	Email             string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"size:128;not null" json:"-"`
	Profession        string         `gorm:"size:32;not null" json:"profession"`
	Role              string         `gorm:"size:32;not null;default:user" json:"role"`
	IsActive          bool           `gorm:"not null" json:"is_active"`
	Banned            bool           `gorm:"not null;default:false" json:"banned"`
	OnboardingAnswers datatypes.JSON `gorm:"type:json" json:"onboarding_answers"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Warning records a moderation warning issued against a user.
type Warning struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   string    `gorm:"size:128;index;not null" json:"user_id"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	IssuedAt time.Time `json:"issued_at"`
}
