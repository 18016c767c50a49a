package models

import (
	"time"

	"gorm.io/datatypes"
)

// Join request states. The transition is one-way: pending may become
// approved or rejected, and resolved requests never change again.
const (
	JoinRequestPending  = "pending"
	JoinRequestApproved = "approved"
	JoinRequestRejected = "rejected"
)

// JoinAnswer is a single question/answer pair submitted with a join request.
type JoinAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// JoinRequest is a pending membership application tied to a community.
// Role is set when the request is approved.
type JoinRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequestID   string         `gorm:"size:64;uniqueIndex;not null" json:"request_id"`
	CommunityID string         `gorm:"size:64;index;not null" json:"community_id"`
	UserID      string         `gorm:"size:128;index;not null" json:"user_id"`
	Answers     datatypes.JSON `gorm:"type:json" json:"answers"`
	Status      string         `gorm:"size:16;not null;default:pending" json:"status"`
	Role        *string        `gorm:"size:64" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
