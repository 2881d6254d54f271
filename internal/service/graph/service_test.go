package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/photoshare/internal/apptest"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/service/graph"
)

func TestFollowUnfollow(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := graph.NewGraphService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	// following twice is a no-op
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := svc.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	// unfollowing a missing edge is a no-op
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	ok, err = svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err = svc.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSelfFollowRejected(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := graph.NewGraphService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")

	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), svcErr.ErrSelfFollow)
	assert.ErrorIs(t, svc.Unfollow(ctx, alice.ID, alice.ID), svcErr.ErrSelfFollow)

	ok, err := svc.IsFollowing(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := graph.NewGraphService(appCtx)
	apptest.User(t, appCtx, "alice", "pw")

	u, err := svc.ResolveUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.ResolveUser(ctx, "ghost")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}
