package repository

import (
	"context"

	"chugr/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwipeRepository provides data access methods for the Swipe model.
// Swipes are write-once: the composite PK (swiper_id, target_id) plus an
// insert-only discipline means a pair can never be overwritten.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create inserts a swipe. Returns models.ErrSwipeExists when a swipe for
// the same ordered (swiper, target) pair already exists: the insert uses
// ON CONFLICT DO NOTHING, so a duplicate is detected by zero rows affected
// rather than a read-then-write check.
func (r *SwipeRepository) Create(ctx context.Context, swipe *models.Swipe) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(swipe)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrSwipeExists
	}
	return nil
}

// HasPositive reports whether swiper has liked or super-liked target.
func (r *SwipeRepository) HasPositive(ctx context.Context, swiperID, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("swiper_id = ? AND target_id = ? AND action IN ?",
			swiperID, targetID,
			[]models.SwipeAction{models.ActionLike, models.ActionSuperLike}).
		Count(&count).Error
	return count > 0, err
}

// SwipedUserIDs returns every user the given user has a swipe edge with,
// in either direction. Used to exclude already-seen users from the
// candidate set.
func (r *SwipeRepository) SwipedUserIDs(ctx context.Context, userID uint) ([]uint, error) {
	var outgoing []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("swiper_id = ?", userID).
		Pluck("target_id", &outgoing).Error; err != nil {
		return nil, err
	}

	var incoming []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("target_id = ?", userID).
		Pluck("swiper_id", &incoming).Error; err != nil {
		return nil, err
	}

	return append(outgoing, incoming...), nil
}

// CountPositiveReceived returns how many users have liked or super-liked
// the given user. Used as the DB fallback behind the Redis like counter.
func (r *SwipeRepository) CountPositiveReceived(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Swipe{}).
		Where("target_id = ? AND action IN ?",
			userID,
			[]models.SwipeAction{models.ActionLike, models.ActionSuperLike}).
		Count(&count).Error
	return count, err
}
