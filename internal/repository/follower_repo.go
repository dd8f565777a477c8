package repository

import (
	"context"
	"errors"
	"fmt"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

type FollowerRepo interface {
	Get(ctx context.Context, followerID, followedID uint) (*models.Follower, error)
	Create(ctx context.Context, edge *models.Follower) error
	Delete(ctx context.Context, followerID, followedID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type FollowerRepoImpl struct {
	db *gorm.DB
}

func NewFollowerRepo(db *gorm.DB) FollowerRepo {
	return &FollowerRepoImpl{db: db}
}

// Get returns the edge followerID -> followedID, or nil, nil if absent.
func (r *FollowerRepoImpl) Get(ctx context.Context, followerID, followedID uint) (*models.Follower, error) {
	var edge models.Follower
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get follower edge: %w", err)
	}
	return &edge, nil
}

// Create inserts the edge; a second insert for the same pair yields ErrDuplicate.
func (r *FollowerRepoImpl) Create(ctx context.Context, edge *models.Follower) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return fmt.Errorf("create follower edge: %w", translate(err))
	}
	return nil
}

func (r *FollowerRepoImpl) Delete(ctx context.Context, followerID, followedID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follower{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete follower edge: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *FollowerRepoImpl) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

func (r *FollowerRepoImpl) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return count, nil
}
