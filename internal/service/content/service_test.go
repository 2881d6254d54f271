package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/photoshare/internal/apptest"
	"github.com/oggyb/photoshare/internal/cache"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/service/content"
)

func TestCreateAndGetPost(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")

	post, err := svc.CreatePost(ctx, alice.ID, " https://img.example/a.jpg ", "")
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/a.jpg", got.ImageURL)
	assert.Equal(t, "alice", got.Author.Username)

	_, err = svc.GetPost(ctx, 999)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

// TestEditPostAuthorization: only the author may edit; others get Forbidden
// and the post is untouched.
func TestEditPostAuthorization(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "original", time.Now().UTC())

	err := svc.EditPost(ctx, bob.ID, post.ID, "https://img.example/x.jpg", "hijacked")
	assert.ErrorIs(t, err, svcErr.ErrForbidden)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Caption)

	require.NoError(t, svc.EditPost(ctx, alice.ID, post.ID, "https://img.example/new.jpg", "edited"))
	got, err = svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Caption)

	assert.ErrorIs(t, svc.EditPost(ctx, alice.ID, 999, "x", "y"), svcErr.ErrNotFound)
}

func TestDeletePostCascadesAndDropsCache(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "bye", time.Now().UTC())

	_, err := svc.AddComment(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	n, err := svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.True(t, mr.Exists(cache.KeyForLikeCount(post.ID)))

	assert.ErrorIs(t, svc.DeletePost(ctx, bob.ID, post.ID), svcErr.ErrForbidden)
	require.NoError(t, svc.DeletePost(ctx, alice.ID, post.ID))

	var comments, likes int64
	appCtx.DB.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	appCtx.DB.Model(&db.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
	assert.False(t, mr.Exists(cache.KeyForLikeCount(post.ID)))

	assert.ErrorIs(t, svc.DeletePost(ctx, alice.ID, post.ID), svcErr.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "p", time.Now().UTC())

	_, err := svc.AddComment(ctx, alice.ID, post.ID, "   ")
	assert.ErrorIs(t, err, svcErr.ErrEmptyComment)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = svc.AddComment(ctx, alice.ID, 999, "hello")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	c, err := svc.AddComment(ctx, alice.ID, post.ID, " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Text)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
}

// TestToggleLikeAndCachedCount walks like → cached count → unlike and checks
// the cache never serves a stale value.
func TestToggleLikeAndCachedCount(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "p", time.Now().UTC())
	key := cache.KeyForLikeCount(post.ID)

	liked, err := svc.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// First call → DB, then cached
	n, err := svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, cache.LikeCountTTL, mr.TTL(key))

	// Second call → cache
	n, err = svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	liked, err = svc.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "0", cached)

	n, err = svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	has, err := svc.HasLiked(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.ToggleLike(ctx, bob.ID, 999)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

// TestLikeCountReaderCannotClobberToggle: a reader that counted before a
// toggle finishes after it. Its older count must not replace the toggle's.
func TestLikeCountReaderCannotClobberToggle(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "p", time.Now().UTC())

	staleCount := int64(0)
	_, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, appCtx.RedisCache.FillLikeCount(ctx, post.ID, staleCount))

	n, err := svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLikeCountWithoutCache(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	appCtx.RedisCache = nil
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "p", time.Now().UTC())

	_, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	n, err := svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLikeCountFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	appCtx, mr := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "p", time.Now().UTC())

	mr.Close()

	liked, err := svc.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := svc.LikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDecorate(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)
	svc := content.NewContentService(appCtx)
	alice := apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")
	now := time.Now().UTC()
	mine := apptest.Post(t, appCtx, alice.ID, "mine", now)
	theirs := apptest.Post(t, appCtx, bob.ID, "theirs", now)

	_, err := svc.ToggleLike(ctx, alice.ID, theirs.ID)
	require.NoError(t, err)

	views, err := svc.Decorate(ctx, &alice, []db.Post{mine, theirs})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Mine)
	assert.False(t, views[0].Liked)
	assert.False(t, views[1].Mine)
	assert.True(t, views[1].Liked)
	assert.Equal(t, int64(1), views[1].Likes)

	views, err = svc.Decorate(ctx, nil, []db.Post{theirs})
	require.NoError(t, err)
	assert.False(t, views[0].Liked)
	assert.False(t, views[0].Mine)
}
