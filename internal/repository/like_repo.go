package repository

import (
	"context"
	"errors"
	"fmt"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

type LikeRepo interface {
	Get(ctx context.Context, likerID, postID uint) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, likerID, postID uint) (int64, error)
}

type LikeRepoImpl struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) LikeRepo {
	return &LikeRepoImpl{db: db}
}

func (r *LikeRepoImpl) Get(ctx context.Context, likerID, postID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("liker_id = ? AND post_id = ?", likerID, postID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &like, nil
}

func (r *LikeRepoImpl) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("create like: %w", translate(err))
	}
	return nil
}

func (r *LikeRepoImpl) Delete(ctx context.Context, likerID, postID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("liker_id = ? AND post_id = ?", likerID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete like: %w", result.Error)
	}
	return result.RowsAffected, nil
}
