package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// ReportFilter defines filters for listing reports.
type ReportFilter struct {
	PostID   string
	Page     int
	PageSize int
}

// ReportRepository exposes persistence helpers for moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByReportID(ctx context.Context, reportID string) (models.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error)
	Delete(ctx context.Context, reportID string) error
	DeleteByPostID(ctx context.Context, postID string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs the report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetByReportID(ctx context.Context, reportID string) (models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error; err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})

	if filter.PostID != "" {
		query = query.Where("post_id = ?", filter.PostID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("reported_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) Delete(ctx context.Context, reportID string) error {
	result := r.db.WithContext(ctx).Where("report_id = ?", reportID).Delete(&models.Report{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByPostID removes every report pointing at a post, used after the
// post itself is taken down.
func (r *reportRepository) DeleteByPostID(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Report{}).Error
}
