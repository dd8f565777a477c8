package repository

import (
	"context"
	"errors"
	"fmt"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

// PostScope narrows a post listing. Zero values mean "no restriction".
type PostScope struct {
	AuthorID   uint // only posts by this user
	FollowedBy uint // only posts by users this user follows
}

type PostRepo interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	// List returns one window of the scope, newest first, with the scope's total size.
	List(ctx context.Context, scope PostScope, limit, offset int) ([]models.Post, int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func orderLikes(db *gorm.DB) *gorm.DB {
	return db.Order("likes.created_at ASC").Order("likes.liker_id ASC")
}

func (r *PostRepoImpl) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetByID loads the post with its poster and likes, or nil, nil if absent.
func (r *PostRepoImpl) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Poster").
		Preload("Likes", orderLikes).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// UpdateContent rewrites the content only; created_at (the feed position) is untouched.
func (r *PostRepoImpl) UpdateContent(ctx context.Context, id uint, content string) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return nil
}

func (r *PostRepoImpl) scoped(ctx context.Context, scope PostScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if scope.AuthorID != 0 {
		query = query.Where("posts.poster_id = ?", scope.AuthorID)
	}
	if scope.FollowedBy != 0 {
		followed := r.db.WithContext(ctx).Model(&models.Follower{}).
			Select("followed_id").
			Where("follower_id = ?", scope.FollowedBy)
		query = query.Where("posts.poster_id IN (?)", followed)
	}
	return query
}

func (r *PostRepoImpl) List(ctx context.Context, scope PostScope, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := r.scoped(ctx, scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 || int64(offset) >= total {
		return []models.Post{}, total, nil
	}

	var posts []models.Post
	err := r.scoped(ctx, scope).
		Preload("Poster").
		Preload("Likes", orderLikes).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}
