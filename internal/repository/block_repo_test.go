package repository_test

import (
	"context"
	"testing"

	"chugr/backend/internal/models"
	"chugr/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewBlockRepository(db)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, repo.Create(ctx, users[0].ID, users[1].ID))
	assert.NoError(t, repo.Create(ctx, users[0].ID, users[1].ID))

	var count int64
	db.Model(&models.Block{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBlockDeleteReportsMissing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewBlockRepository(db)
	users := seedUsers(t, db, "alice", "bob")

	assert.ErrorIs(t, repo.Delete(ctx, users[0].ID, users[1].ID), models.ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, users[0].ID, users[1].ID))
	assert.NoError(t, repo.Delete(ctx, users[0].ID, users[1].ID))
}

func TestBlockedUserIDsIsSymmetric(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewBlockRepository(db)
	users := seedUsers(t, db, "alice", "bob", "carol")

	// alice blocked bob; carol blocked alice.
	require.NoError(t, repo.Create(ctx, users[0].ID, users[1].ID))
	require.NoError(t, repo.Create(ctx, users[2].ID, users[0].ID))

	ids, err := repo.BlockedUserIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{users[1].ID, users[2].ID}, ids)
}
