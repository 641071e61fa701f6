package repository

import (
	"context"

	"collabhub/internal/cache"
	"collabhub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByCollab(ctx context.Context, collabID string) ([]*models.Comment, error)
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB, c *cache.Cache) CommentRepository {
	return &commentRepository{db: db, cache: c}
}

// Create inserts the comment and returns it with the author preloaded.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var created models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&created, "id = ?", comment.ID).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	// Comment counts feed the detail payload and the leaderboard.
	var slug string
	r.db.WithContext(ctx).
		Model(&models.Collab{}).
		Where("id = ?", comment.CollabID).
		Pluck("slug", &slug)
	if slug != "" {
		r.cache.Invalidate(ctx, cache.CollabKey(slug), cache.LeaderboardKey)
	}

	return &created, nil
}

func (r *commentRepository) ListByCollab(ctx context.Context, collabID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("collab_id = ?", collabID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
