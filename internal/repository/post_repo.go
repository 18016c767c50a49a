package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// PostRepository exposes read and moderation access to posts. The API never
// authors posts; it only inspects and removes them.
type PostRepository interface {
	GetByPostID(ctx context.Context, postID string) (models.Post, error)
	GetByPostIDs(ctx context.Context, postIDs []string) (map[string]models.Post, error)
	Delete(ctx context.Context, postID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs the post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByPostID(ctx context.Context, postID string) (models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&post).Error; err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *postRepository) GetByPostIDs(ctx context.Context, postIDs []string) (map[string]models.Post, error) {
	result := make(map[string]models.Post, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&posts).Error; err != nil {
		return nil, err
	}

	for _, post := range posts {
		result[post.PostID] = post
	}
	return result, nil
}

func (r *postRepository) Delete(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
