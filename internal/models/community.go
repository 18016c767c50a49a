package models

import (
	"time"

	"gorm.io/datatypes"
)

// Privacy values for communities.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Community is a moderated space with per-role join questionnaires.
// Topics, roles, questions, members and topic pictures are JSON documents;
// profile and topic picture values are URLs owned by external blob storage.
type Community struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CommunityID    string         `gorm:"size:64;uniqueIndex;not null" json:"community_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Topics         datatypes.JSON `gorm:"type:json" json:"topics"`
	Privacy        string         `gorm:"size:16;not null;default:public" json:"privacy"`
	Rules          string         `gorm:"type:text" json:"rules"`
	Roles          datatypes.JSON `gorm:"type:json" json:"roles"`
	Questions      datatypes.JSON `gorm:"type:json" json:"questions"`
	ProfilePicture string         `gorm:"size:512" json:"profile_picture"`
	TopicPictures  datatypes.JSON `gorm:"type:json" json:"topic_pictures"`
	Members        datatypes.JSON `gorm:"type:json" json:"members"`
	Archived       bool           `gorm:"not null;default:false" json:"archived"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Group is a topic sub-chat inside a community. One group is created per
// declared topic when the community is created.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GroupID     string         `gorm:"size:64;uniqueIndex;not null" json:"group_id"`
	CommunityID string         `gorm:"size:64;index" json:"community_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	TopicIndex  int            `gorm:"not null;default:0" json:"topic_index"`
	Admin       string         `gorm:"size:128" json:"admin"`
	Members     datatypes.JSON `gorm:"type:json" json:"members"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
