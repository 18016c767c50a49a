package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/repository"
)

var (
	// ErrReportNotFound indicates no report exists for the identifier.
	ErrReportNotFound = errors.New("report not found")
	// ErrPostNotFound indicates the reported post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrWarningMessageRequired indicates a warn action without a message.
	ErrWarningMessageRequired = errors.New("warn action requires a message")
	// ErrUnknownModerationAction indicates an unsupported moderation action.
	ErrUnknownModerationAction = errors.New("unknown moderation action")
)

// ReportService handles post reporting and moderation.
type ReportService interface {
	Create(ctx context.Context, reporterID string, payload dto.ReportCreateRequest) (dto.ReportResponse, error)
	List(ctx context.Context, req dto.ReportListRequest) (dto.ReportListResponse, error)
	Moderate(ctx context.Context, reportID string, payload dto.ModerationRequest, actor ActivityActor) (dto.ModerationResponse, error)
}

type reportService struct {
	reports   repository.ReportRepository
	posts     repository.PostRepository
	users     repository.UserRepository
	warnings  repository.WarningRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(reports repository.ReportRepository, posts repository.PostRepository, users repository.UserRepository, warnings repository.WarningRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ReportService {
	return &reportService{
		reports:   reports,
		posts:     posts,
		users:     users,
		warnings:  warnings,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "report_service").Logger(),
		now:       time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, reporterID string, payload dto.ReportCreateRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	post, err := s.posts.GetByPostID(ctx, payload.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrPostNotFound
		}
		return dto.ReportResponse{}, err
	}

	report := models.Report{
		ReportID:   uuid.NewString(),
		PostID:     post.PostID,
		ReportedBy: reporterID,
		Reason:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason)),
		ReportedAt: s.now().UTC(),
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		s.logger.Error().Err(err).Msg("failed to create report")
		return dto.ReportResponse{}, err
	}

	return dto.NewReportResponse(report, &post), nil
}

func (s *reportService) List(ctx context.Context, req dto.ReportListRequest) (dto.ReportListResponse, error) {
	filter := repository.ReportFilter{
		PostID:   strings.TrimSpace(req.PostID),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	reports, total, err := s.reports.List(ctx, filter)
	if err != nil {
		return dto.ReportListResponse{}, err
	}

	postIDs := make([]string, 0, len(reports))
	for _, report := range reports {
		postIDs = append(postIDs, report.PostID)
	}

	posts, err := s.posts.GetByPostIDs(ctx, postIDs)
	if err != nil {
		return dto.ReportListResponse{}, err
	}

	responses := make([]dto.ReportResponse, 0, len(reports))
	for _, report := range reports {
		var post *models.Post
		if found, ok := posts[report.PostID]; ok {
			p := found
			post = &p
		}
		responses = append(responses, dto.NewReportResponse(report, post))
	}

	return dto.ReportListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(maxInt(req.Page, 1), req.PageSize, total),
	}, nil
}

// Moderate resolves a report. Delete removes the post and every report
// against it; warn records a warning for the post author; ban disables
// the author's account. Warn and ban leave the post in place but close
// the acted-on report.
func (s *reportService) Moderate(ctx context.Context, reportID string, payload dto.ModerationRequest, actor ActivityActor) (dto.ModerationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModerationResponse{}, err
	}

	report, err := s.reports.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModerationResponse{}, ErrReportNotFound
		}
		return dto.ModerationResponse{}, err
	}

	response := dto.ModerationResponse{ReportID: reportID, Action: payload.Action}

	switch payload.Action {
	case dto.ModerationActionDelete:
		if err := s.posts.Delete(ctx, report.PostID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModerationResponse{}, err
		}
		if err := s.reports.DeleteByPostID(ctx, report.PostID); err != nil {
			return dto.ModerationResponse{}, err
		}
		response.PostID = report.PostID

	case dto.ModerationActionWarn:
		message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
		if message == "" {
			return dto.ModerationResponse{}, ErrWarningMessageRequired
		}
		post, err := s.posts.GetByPostID(ctx, report.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ModerationResponse{}, ErrPostNotFound
			}
			return dto.ModerationResponse{}, err
		}
		warning := models.Warning{UserID: post.AuthorID, Message: message, IssuedAt: s.now().UTC()}
		if err := s.warnings.Create(ctx, &warning); err != nil {
			return dto.ModerationResponse{}, err
		}
		if err := s.reports.Delete(ctx, reportID); err != nil {
			return dto.ModerationResponse{}, err
		}
		response.UserID = post.AuthorID

	case dto.ModerationActionBan:
		post, err := s.posts.GetByPostID(ctx, report.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ModerationResponse{}, ErrPostNotFound
			}
			return dto.ModerationResponse{}, err
		}
		if _, err := s.users.Update(ctx, post.AuthorID, map[string]interface{}{
			"banned":    true,
			"is_active": false,
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ModerationResponse{}, ErrUserNotFound
			}
			return dto.ModerationResponse{}, err
		}
		if err := s.reports.Delete(ctx, reportID); err != nil {
			return dto.ModerationResponse{}, err
		}
		response.UserID = post.AuthorID

	default:
		return dto.ModerationResponse{}, ErrUnknownModerationAction
	}

	s.recordActivity(ctx, actor, report, payload.Action)

	return response, nil
}

func (s *reportService) recordActivity(ctx context.Context, actor ActivityActor, report models.Report, action string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "report." + action,
		EntityType: "report",
		EntityID:   report.ReportID,
		Metadata:   map[string]interface{}{"post_id": report.PostID},
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record activity")
	}
}
