package repository

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// CommunityFilter defines filters for listing communities.
type CommunityFilter struct {
	Search   string
	Privacy  string
	Archived *bool
	Sort     string
	Page     int
	PageSize int
}

// CommunityRepository exposes persistence helpers for communities.
type CommunityRepository interface {
	CreateWithGroups(ctx context.Context, community *models.Community, groups []models.Group) error
	GetByCommunityID(ctx context.Context, communityID string) (models.Community, error)
	List(ctx context.Context, filter CommunityFilter) ([]models.Community, int64, error)
	Update(ctx context.Context, communityID string, updates map[string]interface{}) (models.Community, error)
	SetMembers(ctx context.Context, communityID string, members datatypes.JSON) error
	Delete(ctx context.Context, communityID string) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository constructs the community repository.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// CreateWithGroups persists a community and its per-topic groups atomically.
func (r *communityRepository) CreateWithGroups(ctx context.Context, community *models.Community, groups []models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		for i := range groups {
			groups[i].CommunityID = community.CommunityID
			if err := tx.Create(&groups[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *communityRepository) GetByCommunityID(ctx context.Context, communityID string) (models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("community_id = ?", communityID).First(&community).Error; err != nil {
		return models.Community{}, err
	}
	return community, nil
}

func (r *communityRepository) List(ctx context.Context, filter CommunityFilter) ([]models.Community, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Community{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if filter.Privacy != "" {
		query = query.Where("privacy = ?", filter.Privacy)
	}

	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "created_at DESC"
	}
	query = query.Order(sort)

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var communities []models.Community
	if err := query.Find(&communities).Error; err != nil {
		return nil, 0, err
	}

	return communities, total, nil
}

func (r *communityRepository) Update(ctx context.Context, communityID string, updates map[string]interface{}) (models.Community, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("community_id = ?", communityID).
		Updates(updates)
	if result.Error != nil {
		return models.Community{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Community{}, gorm.ErrRecordNotFound
	}

	return r.GetByCommunityID(ctx, communityID)
}

func (r *communityRepository) SetMembers(ctx context.Context, communityID string, members datatypes.JSON) error {
	result := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("community_id = ?", communityID).
		Update("members", members)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a community and its groups atomically.
func (r *communityRepository) Delete(ctx context.Context, communityID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ?", communityID).Delete(&models.Community{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("community_id = ?", communityID).Delete(&models.Group{}).Error
	})
}
