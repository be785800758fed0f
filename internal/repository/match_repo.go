package repository

import (
	"context"
	"errors"
	"time"

	"chugr/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts a match for the unordered pair {a, b} if none
// exists yet, and returns the match row either way.
//
// The pair is normalized to (low, high) and inserted with ON CONFLICT DO
// NOTHING against the composite unique index, so two racing creations for
// the same pair converge on a single row: one insert wins, the other sees
// zero rows affected and reads the winner's row back. The boolean return
// is true only for the path that actually created the row.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b uint, now time.Time) (*models.Match, bool, error) {
	userA, userB := models.NormalizePair(a, b)

	match := models.Match{
		UserAID:   userA,
		UserBID:   userB,
		Active:    true,
		MatchedAt: now,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&match)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost the race (or the pair matched before): fetch the winner.
		var existing models.Match
		err := r.db.WithContext(ctx).
			Where("user_a_id = ? AND user_b_id = ?", userA, userB).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	return &match, true, nil
}

// ListActiveForUser returns all active matches the user participates in,
// with both participants preloaded, newest first.
func (r *MatchRepository) ListActiveForUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("active = ? AND (user_a_id = ? OR user_b_id = ?)", true, userID, userID).
		Preload("UserA.Interests").
		Preload("UserB.Interests").
		Preload("UserA").
		Preload("UserB").
		Order("matched_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// GetForUser returns the active match with the given ID if the user is a
// participant. Non-participants get models.ErrMatchNotFound, never a
// permission error, so the lookup does not leak the match's existence.
func (r *MatchRepository) GetForUser(ctx context.Context, matchID, userID uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("UserA.Interests").
		Preload("UserB.Interests").
		Preload("UserA").
		Preload("UserB").
		First(&match, matchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMatchNotFound
		}
		return nil, err
	}

	if !match.Active || !match.HasUser(userID) {
		return nil, models.ErrMatchNotFound
	}

	return &match, nil
}

// Deactivate marks a match inactive.
func (r *MatchRepository) Deactivate(ctx context.Context, matchID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", matchID).
		Update("active", false).Error
}

// DeactivateAllForUser marks every active match involving the user as
// inactive and returns the affected match IDs so dependent conversations
// can be deactivated too.
func (r *MatchRepository) DeactivateAllForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("active = ? AND (user_a_id = ? OR user_b_id = ?)", true, userID, userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id IN ?", ids).
		Update("active", false).Error
	return ids, err
}
