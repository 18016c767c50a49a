package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// WarningRepository persists moderation warnings issued against users.
type WarningRepository interface {
	Create(ctx context.Context, warning *models.Warning) error
	ListByUser(ctx context.Context, userID string) ([]models.Warning, error)
}

type warningRepository struct {
	db *gorm.DB
}

// NewWarningRepository constructs the warning repository.
func NewWarningRepository(db *gorm.DB) WarningRepository {
	return &warningRepository{db: db}
}

func (r *warningRepository) Create(ctx context.Context, warning *models.Warning) error {
	return r.db.WithContext(ctx).Create(warning).Error
}

func (r *warningRepository) ListByUser(ctx context.Context, userID string) ([]models.Warning, error) {
	var warnings []models.Warning
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&warnings).Error
	return warnings, err
}
