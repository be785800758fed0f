package repository

import (
	"context"
	"errors"
	"time"

	"chugr/backend/internal/matching"
	"chugr/backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID returns the user with the given ID, interests preloaded.
// Soft-deleted users are treated as not found.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Interests").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByLogin looks a user up by nickname or email.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("nickname = ? OR email = ?", login, login).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// NicknameOrEmailTaken reports whether a user already holds either value.
func (r *UserRepository) NicknameOrEmailTaken(ctx context.Context, nickname, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("nickname = ? OR email = ?", nickname, email).
		Count(&count).Error
	return count > 0, err
}

// Save persists changes to an existing user.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ReplaceInterests replaces the user's interest associations with the
// given catalog entries.
func (r *UserRepository) ReplaceInterests(ctx context.Context, user *models.User, interests []*models.Interest) error {
	return r.db.WithContext(ctx).Model(user).Association("Interests").Replace(interests)
}

// Delete soft-deletes a user. Their matches and conversations are
// deactivated separately by the matching service.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// FindCandidates returns users passing the viewer's hard discovery
// filters: visible (show_me), inside the viewer's age window and gender
// filter, and roughly within range via a bounding-box prefilter. Exact
// distance and scoring happen in the matching service; this query only
// narrows the set.
func (r *UserRepository) FindCandidates(ctx context.Context, viewer *models.User, excludedIDs []uint, limit int) ([]models.User, error) {
	now := time.Now()
	prefs := viewer.Preferences

	// Hard age window: candidate's birth date must put them inside
	// [MinAge, MaxAge] as of today.
	youngestBirth := now.AddDate(-prefs.MinAge, 0, 0)
	oldestBirth := now.AddDate(-(prefs.MaxAge + 1), 0, 0)

	box := matching.NewBoundingBox(viewer.Lat, viewer.Lon, prefs.MaxDistanceKm)

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Preload("Interests").
		Where("id <> ?", viewer.ID).
		Where("pref_show_me = ?", true).
		Where("birth_date <= ? AND birth_date > ?", youngestBirth, oldestBirth).
		Where("lat BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("lon BETWEEN ? AND ?", box.MinLon, box.MaxLon)

	if accepted := prefs.AcceptedGenders(); len(accepted) > 0 {
		query = query.Where("gender IN ?", accepted)
	}

	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}

	var candidates []models.User
	err := query.Order("id ASC").Limit(limit).Find(&candidates).Error
	return candidates, err
}
