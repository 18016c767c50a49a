package dto

import (
	"time"

	"github.com/communix/communix-api/internal/models"
)

// Moderation actions accepted when resolving a report.
const (
	ModerationActionDelete = "delete"
	ModerationActionWarn   = "warn"
	ModerationActionBan    = "ban"
)

// ReportCreateRequest flags a post for moderation.
type ReportCreateRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

// ReportResponse serializes a report together with the reported post
// content so moderators can act without a second lookup.
type ReportResponse struct {
	ID          uint      `json:"id"`
	ReportID    string    `json:"report_id"`
	PostID      string    `json:"post_id"`
	PostContent string    `json:"post_content"`
	AuthorID    string    `json:"author_id"`
	ReportedBy  string    `json:"reported_by"`
	Reason      string    `json:"reason"`
	ReportedAt  time.Time `json:"reported_at"`
}

// NewReportResponse converts a report and its post into a DTO. The post
// may be missing when it was already removed.
func NewReportResponse(report models.Report, post *models.Post) ReportResponse {
	response := ReportResponse{
		ID:         report.ID,
		ReportID:   report.ReportID,
		PostID:     report.PostID,
		ReportedBy: report.ReportedBy,
		Reason:     report.Reason,
		ReportedAt: report.ReportedAt,
	}
	if post != nil {
		response.PostContent = post.Content
		response.AuthorID = post.AuthorID
	}
	return response
}

// ReportListRequest defines filters for listing reports.
type ReportListRequest struct {
	Page     int
	PageSize int
	PostID   string
}

// ReportListResponse wraps a paginated report listing.
type ReportListResponse struct {
	Items      []ReportResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// ModerationRequest resolves a report with one of the supported actions.
// Message is required when warning a user.
type ModerationRequest struct {
	Action  string `json:"action" validate:"required,oneof=delete warn ban"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

// ModerationResponse reports the outcome of a moderation action.
type ModerationResponse struct {
	ReportID string `json:"report_id"`
	Action   string `json:"action"`
	PostID   string `json:"post_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}
