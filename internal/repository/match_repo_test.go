package repository_test

import (
	"context"
	"testing"
	"time"

	"chugr/backend/internal/database"
	"chugr/backend/internal/models"
	"chugr/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, nicknames ...string) []models.User {
	t.Helper()
	users := make([]models.User, 0, len(nicknames))
	for _, nickname := range nicknames {
		u := models.User{
			Nickname:     nickname,
			Email:        nickname + "@example.com",
			PasswordHash: "x",
			Gender:       "other",
			BirthDate:    time.Now().AddDate(-25, 0, -20),
			Preferences:  models.Preferences{MinAge: 18, MaxAge: 99, MaxDistanceKm: 50, ShowMe: true},
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func TestCreateIfAbsentNormalizesPair(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewMatchRepository(db)
	users := seedUsers(t, db, "alice", "bob")
	now := time.Now()

	// Insert with the pair deliberately reversed.
	match, created, err := repo.CreateIfAbsent(ctx, users[1].ID, users[0].ID, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, users[0].ID, match.UserAID)
	assert.Equal(t, users[1].ID, match.UserBID)
}

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewMatchRepository(db)
	users := seedUsers(t, db, "alice", "bob")
	now := time.Now()

	first, created, err := repo.CreateIfAbsent(ctx, users[0].ID, users[1].ID, now)
	require.NoError(t, err)
	assert.True(t, created)

	// The losing side of a race arrives with the pair reversed and must
	// converge on the winner's row rather than insert a second one.
	second, created, err := repo.CreateIfAbsent(ctx, users[1].ID, users[0].ID, now)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Match{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetForUserHidesOtherPeoplesMatches(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewMatchRepository(db)
	users := seedUsers(t, db, "alice", "bob", "carol")

	match, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[1].ID, time.Now())
	require.NoError(t, err)

	got, err := repo.GetForUser(ctx, match.ID, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, got.ID)

	// Non-participant and unknown ID both read as not found.
	_, err = repo.GetForUser(ctx, match.ID, users[2].ID)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
	_, err = repo.GetForUser(ctx, 9999, users[0].ID)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)

	// Deactivated matches read as not found too.
	require.NoError(t, repo.Deactivate(ctx, match.ID))
	_, err = repo.GetForUser(ctx, match.ID, users[0].ID)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestListActiveForUserOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewMatchRepository(db)
	users := seedUsers(t, db, "alice", "bob", "carol", "dave")

	base := time.Now().Add(-time.Hour)
	older, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[1].ID, base)
	require.NoError(t, err)
	newer, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[2].ID, base.Add(time.Minute))
	require.NoError(t, err)
	inactive, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[3].ID, base.Add(2*time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(ctx, inactive.ID))

	matches, err := repo.ListActiveForUser(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer.ID, matches[0].ID)
	assert.Equal(t, older.ID, matches[1].ID)

	// Participants come preloaded for response building.
	assert.Equal(t, "alice", matches[0].UserA.Nickname)
}

func TestDeactivateAllForUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewMatchRepository(db)
	users := seedUsers(t, db, "alice", "bob", "carol", "dave")

	now := time.Now()
	m1, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[1].ID, now)
	require.NoError(t, err)
	m2, _, err := repo.CreateIfAbsent(ctx, users[0].ID, users[2].ID, now)
	require.NoError(t, err)
	untouched, _, err := repo.CreateIfAbsent(ctx, users[2].ID, users[3].ID, now)
	require.NoError(t, err)

	ids, err := repo.DeactivateAllForUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{m1.ID, m2.ID}, ids)

	matches, err := repo.ListActiveForUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// Unrelated matches stay active.
	got, err := repo.GetForUser(ctx, untouched.ID, users[2].ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	// No matches left: nothing to report.
	ids, err = repo.DeactivateAllForUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
