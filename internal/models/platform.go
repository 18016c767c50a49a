package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is a platform-level role definition with an ordered permission list.
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Permissions datatypes.JSON `gorm:"type:json" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Setting is the single platform configuration document, upserted as a whole.
type Setting struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Values    datatypes.JSONMap `gorm:"type:json" json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ActivityLog records an administrative action for audit trails.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"size:128;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32" json:"actor_role"`
	Action     string            `gorm:"size:64;index;not null" json:"action"`
	EntityType string            `gorm:"size:32;index" json:"entity_type"`
	EntityID   string            `gorm:"size:128;index" json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
