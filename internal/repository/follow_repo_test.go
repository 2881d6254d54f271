package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/photoshare/internal/repository"
)

func TestFollowIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewFollowRepository(database)
	a := mustUser(t, database, "a")
	b := mustUser(t, database, "b")

	created, err := repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// direction matters
	following, err = repo.IsFollowing(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	followingCount, err := repo.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followingCount)
}

func TestUnfollow(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewFollowRepository(database)
	a := mustUser(t, database, "a")
	b := mustUser(t, database, "b")

	removed, err := repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)

	removed, err = repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)
}
