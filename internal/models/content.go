package models

import "time"

// Post is user-generated content inside a community. The API only reads
// posts for aggregation and removes them through moderation; authoring
// happens in a separate service.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      string    `gorm:"size:64;uniqueIndex;not null" json:"post_id"`
	CommunityID string    `gorm:"size:64;index" json:"community_id"`
	AuthorID    string    `gorm:"size:128;index" json:"author_id"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Report flags a post for moderation. Its lifecycle ends in deletion
// (content removed) or stays pending moderation.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   string    `gorm:"size:64;uniqueIndex;not null" json:"report_id"`
	PostID     string    `gorm:"size:64;index;not null" json:"post_id"`
	ReportedBy string    `gorm:"size:128;index;not null" json:"reported_by"`
	Reason     string    `gorm:"type:text" json:"reason"`
	ReportedAt time.Time `json:"reported_at"`
}
