package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// GroupRepository exposes persistence helpers for topic groups.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByGroupID(ctx context.Context, groupID string) (models.Group, error)
	ListByCommunity(ctx context.Context, communityID string) ([]models.Group, error)
	SetMembers(ctx context.Context, groupID string, members datatypes.JSON) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository constructs the group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) GetByGroupID(ctx context.Context, groupID string) (models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&group).Error; err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (r *groupRepository) ListByCommunity(ctx context.Context, communityID string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("topic_index ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) SetMembers(ctx context.Context, groupID string, members datatypes.JSON) error {
	result := r.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("group_id = ?", groupID).
		Update("members", members)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
