package repository

import (
	"context"
	"errors"
	"strings"

	"collabhub/internal/cache"
	"collabhub/internal/models"
	"collabhub/internal/observability"

	"gorm.io/gorm"
)

// CollabRepository defines persistence operations for collabs, their tags,
// and the upvote/bookmark membership sets.
type CollabRepository interface {
	Create(ctx context.Context, collab *models.Collab) error
	GetByID(ctx context.Context, id string) (*models.Collab, error)
	GetBySlug(ctx context.Context, slug string) (*models.Collab, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Collab, error)
	Featured(ctx context.Context, limit int) ([]*models.Collab, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Collab, error)
	ListBookmarkedBy(ctx context.Context, userID string) ([]*models.Collab, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Collab, error)
	Recent(ctx context.Context, limit int) ([]*models.Collab, error)
	UpdateWithTags(ctx context.Context, collab *models.Collab, tags []models.TagName) error
	Delete(ctx context.Context, id string) error
	Upvote(ctx context.Context, collabID, userID string) (bool, error)
	AddView(ctx context.Context, collabID string) error
	Bookmark(ctx context.Context, collabID, userID string) error
	Unbookmark(ctx context.Context, collabID, userID string) error
	TopByUpvotes(ctx context.Context, limit int) ([]*models.Collab, error)
	TopByViews(ctx context.Context, limit int) ([]*models.Collab, error)
	TopByComments(ctx context.Context, limit int) ([]*models.Collab, error)
}

type collabRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCollabRepository returns a new CollabRepository implementation.
func NewCollabRepository(db *gorm.DB, c *cache.Cache) CollabRepository {
	return &collabRepository{db: db, cache: c}
}

// withCommentsCount adds the comment count alias to the SELECT in a single query.
func withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("collabs.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.collab_id = collabs.id) AS comments_count")
}

func (r *collabRepository) Create(ctx context.Context, collab *models.Collab) error {
	defer observability.TrackQuery("create", "collabs")()
	if err := r.db.WithContext(ctx).Create(collab).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.FeaturedKey)
	return nil
}

func (r *collabRepository) GetByID(ctx context.Context, id string) (*models.Collab, error) {
	var collab models.Collab
	if err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Tags").
		First(&collab, "collabs.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collab", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &collab, nil
}

// GetBySlug loads the full detail payload: author, tags, comments newest
// first, and the upvoter/bookmarker sets. Served cache-aside; mutators other
// than AddView invalidate, so a view count may lag by up to the TTL.
func (r *collabRepository) GetBySlug(ctx context.Context, slug string) (*models.Collab, error) {
	var collab models.Collab
	err := r.cache.Aside(ctx, cache.CollabKey(slug), &collab, cache.CollabTTL, func() error {
		return withCommentsCount(r.db.WithContext(ctx)).
			Preload("Author").
			Preload("Tags").
			Preload("UpvotedBy").
			Preload("BookmarkedBy").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC").Preload("Author")
			}).
			First(&collab, "collabs.slug = ?", slug).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collab", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &collab, nil
}

func (r *collabRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Collab{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *collabRepository) List(ctx context.Context, limit, offset int) ([]*models.Collab, error) {
	defer observability.TrackQuery("list", "collabs")()
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) Featured(ctx context.Context, limit int) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := r.cache.Aside(ctx, cache.FeaturedKey, &collabs, cache.FeaturedTTL, func() error {
		return withCommentsCount(r.db.WithContext(ctx)).
			Preload("Author").
			Preload("Tags").
			Where("is_featured = ?", true).
			Order("created_at DESC").
			Limit(limit).
			Find(&collabs).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Tags").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) ListBookmarkedBy(ctx context.Context, userID string) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Tags").
		Joins("JOIN collab_bookmarks ON collab_bookmarks.collab_id = collabs.id").
		Where("collab_bookmarks.user_id = ?", userID).
		Order("collabs.created_at DESC").
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

// Search matches the lowercased query as a substring of title or subtitle.
// LOWER() on both sides keeps the semantics identical across Postgres and the
// sqlite test backend.
func (r *collabRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Collab, error) {
	defer observability.TrackQuery("search", "collabs")()
	var collabs []*models.Collab
	like := "%" + strings.ToLower(query) + "%"
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Where("LOWER(title) LIKE ? OR LOWER(subtitle) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) Recent(ctx context.Context, limit int) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

// UpdateWithTags saves the collab's scalar fields and replaces its tag set.
// Tag replacement is destructive: delete all rows, insert the new set, both
// inside one transaction.
func (r *collabRepository) UpdateWithTags(ctx context.Context, collab *models.Collab, tags []models.TagName) error {
	defer observability.TrackQuery("update", "collabs")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(collab).Updates(map[string]any{
			"title":       collab.Title,
			"subtitle":    collab.Subtitle,
			"description": collab.Description,
			"image_url":   collab.ImageURL,
			"link":        collab.Link,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("collab_id = ?", collab.ID).Delete(&models.CollabTag{}).Error; err != nil {
			return err
		}
		for _, name := range tags {
			if err := tx.Create(&models.CollabTag{Name: name, CollabID: collab.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	r.invalidate(ctx, collab.Slug)
	return nil
}

func (r *collabRepository) Delete(ctx context.Context, id string) error {
	slug := r.slugOf(ctx, id)
	if err := r.db.WithContext(ctx).Delete(&models.Collab{}, "id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.invalidate(ctx, slug)
	return nil
}

// Upvote records userID in the upvoter set and bumps the counter only when
// the membership row was actually inserted, so repeat votes by the same user
// are no-ops. Both writes happen in one transaction.
func (r *collabRepository) Upvote(ctx context.Context, collabID, userID string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO collab_upvoters (collab_id, user_id)
			 VALUES (?, ?)
			 ON CONFLICT (collab_id, user_id) DO NOTHING`,
			collabID, userID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Model(&models.Collab{}).
			Where("id = ?", collabID).
			UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if applied {
		r.invalidate(ctx, r.slugOf(ctx, collabID))
	}
	return applied, nil
}

// AddView bumps the view counter atomically. De-duplication per viewer is a
// client concern; the cached detail payload is deliberately not invalidated
// here.
func (r *collabRepository) AddView(ctx context.Context, collabID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Collab{}).
		Where("id = ?", collabID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Collab", collabID)
	}
	return nil
}

func (r *collabRepository) Bookmark(ctx context.Context, collabID, userID string) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO collab_bookmarks (collab_id, user_id)
		 VALUES (?, ?)
		 ON CONFLICT (collab_id, user_id) DO NOTHING`,
		collabID, userID,
	)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	r.invalidate(ctx, r.slugOf(ctx, collabID))
	return nil
}

func (r *collabRepository) Unbookmark(ctx context.Context, collabID, userID string) error {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM collab_bookmarks WHERE collab_id = ? AND user_id = ?`,
		collabID, userID,
	).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.invalidate(ctx, r.slugOf(ctx, collabID))
	return nil
}

func (r *collabRepository) TopByUpvotes(ctx context.Context, limit int) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Order("upvotes DESC").
		Limit(limit).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) TopByViews(ctx context.Context, limit int) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Order("views DESC").
		Limit(limit).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

func (r *collabRepository) TopByComments(ctx context.Context, limit int) ([]*models.Collab, error) {
	var collabs []*models.Collab
	err := withCommentsCount(r.db.WithContext(ctx)).
		Preload("Author").
		Order("comments_count DESC").
		Limit(limit).
		Find(&collabs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collabs, nil
}

// slugOf looks up the slug for a collab ID; empty when the row is gone.
func (r *collabRepository) slugOf(ctx context.Context, id string) string {
	if r.cache.Client() == nil {
		return ""
	}
	var slug string
	r.db.WithContext(ctx).
		Model(&models.Collab{}).
		Where("id = ?", id).
		Pluck("slug", &slug)
	return slug
}

func (r *collabRepository) invalidate(ctx context.Context, slug string) {
	keys := []string{cache.FeaturedKey, cache.LeaderboardKey}
	if slug != "" {
		keys = append(keys, cache.CollabKey(slug))
	}
	r.cache.Invalidate(ctx, keys...)
}
