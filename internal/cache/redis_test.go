package cache_test

import (
	"context"
	"testing"

	"chugr/backend/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewRedisCache(mr.Addr(), "", 0)
}

func TestLikeCountRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	// Cold cache reads as a miss, not an error.
	_, hit, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetLikeCount(ctx, 42, 7))

	count, hit, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), count)
}

func TestIncrLikeCountOnlyBumpsWarmKeys(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	// Cold key: the increment is skipped so the DB repopulates on read.
	require.NoError(t, c.IncrLikeCount(ctx, 42))
	_, hit, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetLikeCount(ctx, 42, 7))
	require.NoError(t, c.IncrLikeCount(ctx, 42))

	count, hit, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(8), count)
}

func TestLikeCountIsPerUser(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	require.NoError(t, c.SetLikeCount(ctx, 1, 3))
	require.NoError(t, c.SetLikeCount(ctx, 2, 9))

	count, _, err := c.GetLikeCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, _, err = c.GetLikeCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}
