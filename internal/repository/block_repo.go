package repository

import (
	"context"

	"chugr/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository provides data access methods for the Block model.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new repository bound to the given DB connection.
func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Create records a block. Blocking an already-blocked user is a no-op.
func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID uint) error {
	block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&block).Error
}

// Delete removes a block. Returns models.ErrUserNotFound when there was
// nothing to remove.
func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID uint) error {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// BlockedUserIDs returns every user the given user has a block edge with,
// in either direction. Blocks hide users from each other symmetrically.
func (r *BlockRepository) BlockedUserIDs(ctx context.Context, userID uint) ([]uint, error) {
	var outgoing []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &outgoing).Error; err != nil {
		return nil, err
	}

	var incoming []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &incoming).Error; err != nil {
		return nil, err
	}

	return append(outgoing, incoming...), nil
}
