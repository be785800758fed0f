package repository_test

import (
	"context"
	"testing"

	"chugr/backend/internal/models"
	"chugr/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	users := seedUsers(t, db, "alice")

	byNickname, err := repo.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, byNickname.ID)

	byEmail, err := repo.FindByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, byEmail.ID)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestNicknameOrEmailTaken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	seedUsers(t, db, "alice")

	taken, err := repo.NicknameOrEmailTaken(ctx, "alice", "fresh@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NicknameOrEmailTaken(ctx, "fresh", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NicknameOrEmailTaken(ctx, "fresh", "fresh@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeleteIsSoft(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	users := seedUsers(t, db, "alice")

	require.NoError(t, repo.Delete(ctx, users[0].ID))

	_, err := repo.FindByID(ctx, users[0].ID)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	// The row itself survives for message history attribution.
	var count int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", users[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReplaceInterests(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	users := seedUsers(t, db, "alice")

	hiking := &models.Interest{Name: "hiking"}
	jazz := &models.Interest{Name: "jazz"}
	opera := &models.Interest{Name: "opera"}
	require.NoError(t, db.Create(&[]*models.Interest{hiking, jazz, opera}).Error)

	require.NoError(t, repo.ReplaceInterests(ctx, &users[0], []*models.Interest{hiking, jazz}))

	reloaded, err := repo.FindByID(ctx, users[0].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hiking", "jazz"}, reloaded.InterestNames())

	require.NoError(t, repo.ReplaceInterests(ctx, &users[0], []*models.Interest{opera}))

	reloaded, err = repo.FindByID(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"opera"}, reloaded.InterestNames())
}

func TestFindCandidatesAppliesHardFilters(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	users := seedUsers(t, db, "viewer", "match", "excluded")
	viewer := &users[0]
	viewer.Preferences.Genders = "other"
	viewer.Preferences.MinAge = 20
	viewer.Preferences.MaxAge = 30
	require.NoError(t, db.Save(viewer).Error)

	candidates, err := repo.FindCandidates(ctx, viewer, []uint{users[2].ID}, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, users[1].ID, candidates[0].ID)
}
