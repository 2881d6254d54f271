package repository_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/repository"
)

func TestLikeToggle(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewLikeRepository(database)
	u := mustUser(t, database, "u")
	p := mustPost(t, database, u.ID, "p", time.Now().UTC())

	liked, err := repo.Toggle(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := repo.Count(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	has, err := repo.HasLiked(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, has)

	liked, err = repo.Toggle(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	n, err = repo.Count(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLikeToggleConcurrent(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewLikeRepository(database)
	u := mustUser(t, database, "u")
	p := mustPost(t, database, u.ID, "p", time.Now().UTC())

	for _, workers := range []int{7, 8} {
		require.NoError(t, database.Where("post_id = ?", p.ID).Delete(&db.Like{}).Error)

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Toggle(ctx, u.ID, p.ID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		n, err := repo.Count(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(workers%2), n, "workers=%d", workers)
	}
}

func TestLikedAmong(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewLikeRepository(database)
	u := mustUser(t, database, "u")
	now := time.Now().UTC()
	p1 := mustPost(t, database, u.ID, "one", now)
	p2 := mustPost(t, database, u.ID, "two", now)

	_, err := repo.Toggle(ctx, u.ID, p2.ID)
	require.NoError(t, err)

	set, err := repo.LikedAmong(ctx, u.ID, []uint64{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.False(t, set[p1.ID])
	assert.True(t, set[p2.ID])

	set, err = repo.LikedAmong(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, set)
}
