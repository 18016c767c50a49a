package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// JoinRequestFilter defines filters for listing join requests.
type JoinRequestFilter struct {
	CommunityID string
	UserID      string
	Status      string
	Page        int
	PageSize    int
}

// JoinRequestRepository exposes persistence helpers for join requests.
type JoinRequestRepository interface {
	Create(ctx context.Context, request *models.JoinRequest) error
	GetByRequestID(ctx context.Context, requestID string) (models.JoinRequest, error)
	List(ctx context.Context, filter JoinRequestFilter) ([]models.JoinRequest, int64, error)
	PendingExists(ctx context.Context, communityID, userID string) (bool, error)
	Resolve(ctx context.Context, requestID, status string) (int64, error)
}

type joinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository constructs the join request repository.
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, request *models.JoinRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *joinRequestRepository) GetByRequestID(ctx context.Context, requestID string) (models.JoinRequest, error) {
	var request models.JoinRequest
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return models.JoinRequest{}, err
	}
	return request, nil
}

func (r *joinRequestRepository) List(ctx context.Context, filter JoinRequestFilter) ([]models.JoinRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JoinRequest{})

	if filter.CommunityID != "" {
		query = query.Where("community_id = ?", filter.CommunityID)
	}

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var requests []models.JoinRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *joinRequestRepository) PendingExists(ctx context.Context, communityID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("community_id = ?", communityID).
		Where("user_id = ?", userID).
		Where("status = ?", models.JoinRequestPending).
		Count(&count).Error
	return count > 0, err
}

// Resolve flips a pending request to its terminal status. The conditional
// WHERE keeps the transition one-way under concurrent moderators; the
// returned row count is zero when the request was already resolved or
// does not exist.
func (r *joinRequestRepository) Resolve(ctx context.Context, requestID, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("request_id = ?", requestID).
		Where("status = ?", models.JoinRequestPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}
