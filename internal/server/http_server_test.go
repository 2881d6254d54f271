package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/apptest"
	"github.com/oggyb/photoshare/internal/catfact"
	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/server"
	"github.com/oggyb/photoshare/internal/service/account"
	"github.com/oggyb/photoshare/internal/service/content"
	"github.com/oggyb/photoshare/internal/service/feed"
	"github.com/oggyb/photoshare/internal/service/graph"
	"github.com/oggyb/photoshare/internal/service/messaging"
)

func newRouter(appCtx *app.AppContext) http.Handler {
	accounts := account.NewRegistrar(appCtx)
	return server.NewRouter(appCtx, accounts.Service().GetByID,
		accounts,
		graph.NewRegistrar(appCtx),
		content.NewRegistrar(appCtx),
		feed.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
	)
}

func newBrowser(t *testing.T) (*apptest.Browser, *app.AppContext) {
	t.Helper()
	appCtx, _ := apptest.New(t)
	return apptest.NewBrowser(t, newRouter(appCtx)), appCtx
}

func TestRegisterLoginPostFeed(t *testing.T) {
	b, _ := newBrowser(t)

	res := b.Post("/register", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/login", res.Location)

	res = b.Get("/login")
	assert.Contains(t, res.Body, "Registration successful! Please log in.")

	b.Login("alice", "pw")

	res = b.Post("/create_post", url.Values{"image_url": {"https://img.example/cat.jpg"}, "caption": {"My cat"}})
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/", res.Location)

	res = b.Get("/")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Post created successfully!")
	assert.Contains(t, res.Body, "My cat")
	assert.Contains(t, res.Body, "https://img.example/cat.jpg")

	// notices are one-shot
	res = b.Get("/")
	assert.NotContains(t, res.Body, "Post created successfully!")
}

func TestDuplicateRegistrationShowsNotice(t *testing.T) {
	b, appCtx := newBrowser(t)
	apptest.User(t, appCtx, "alice", "pw")

	res := b.Post("/register", url.Values{"username": {"alice"}, "password": {"other"}})
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/register", res.Location)

	res = b.Get("/register")
	assert.Contains(t, res.Body, "username already exists")
}

func TestInvalidLogin(t *testing.T) {
	b, appCtx := newBrowser(t)
	apptest.User(t, appCtx, "alice", "pw")

	res := b.Post("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/login", res.Location)

	res = b.Get("/login")
	assert.Contains(t, res.Body, "Invalid username or password.")

	// still anonymous
	res = b.Get("/")
	assert.Equal(t, "/login", res.Location)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	b, _ := newBrowser(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/page/2"},
		{http.MethodGet, "/create_post"},
		{http.MethodPost, "/create_post"},
		{http.MethodPost, "/follow/alice"},
		{http.MethodPost, "/like_post/1"},
		{http.MethodGet, "/messages"},
		{http.MethodGet, "/conversation/1"},
		{http.MethodGet, "/cat_fact"},
		{http.MethodGet, "/edit_profile"},
	} {
		var res apptest.Response
		if tc.method == http.MethodGet {
			res = b.Get(tc.path)
		} else {
			res = b.Post(tc.path, url.Values{})
		}
		assert.Equal(t, http.StatusSeeOther, res.Status, tc.path)
		assert.Equal(t, "/login", res.Location, tc.path)
	}

	res := b.Get("/login")
	assert.Contains(t, res.Body, "Please log in to continue.")
}

func TestEditOthersPostIsForbidden(t *testing.T) {
	b, appCtx := newBrowser(t)
	alice := apptest.User(t, appCtx, "alice", "pw")
	apptest.User(t, appCtx, "bob", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "alice's", time.Now().UTC())

	b.Login("bob", "pw")

	path := fmt.Sprintf("/edit_post/%d", post.ID)
	res := b.Post(path, url.Values{"image_url": {"https://img.example/x.jpg"}, "caption": {"mine now"}})
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/", res.Location)

	var got db.Post
	require.NoError(t, appCtx.DB.First(&got, post.ID).Error)
	assert.Equal(t, "alice's", got.Caption)

	res = b.Post(fmt.Sprintf("/delete_post/%d", post.ID), url.Values{})
	assert.Equal(t, "/", res.Location)

	res = b.Get("/edit_post/999")
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestFollowLikeCommentFlow(t *testing.T) {
	b, appCtx := newBrowser(t)
	alice := apptest.User(t, appCtx, "alice", "pw")
	apptest.User(t, appCtx, "bob", "pw")
	post := apptest.Post(t, appCtx, alice.ID, "sunset", time.Now().UTC())

	b.Login("bob", "pw")

	res := b.Post("/follow/alice", url.Values{})
	require.Equal(t, "/profile/alice", res.Location)
	res = b.Get("/profile/alice")
	assert.Contains(t, res.Body, "You are now following alice!")
	assert.Contains(t, res.Body, "Unfollow")

	res = b.Post("/follow/bob", url.Values{})
	require.Equal(t, "/profile/bob", res.Location)
	res = b.Get("/profile/bob")
	assert.Contains(t, res.Body, "you cannot follow yourself")

	res = b.Post(fmt.Sprintf("/like_post/%d", post.ID), url.Values{})
	require.Equal(t, "/", res.Location)
	res = b.Get("/")
	assert.Contains(t, res.Body, "Post liked!")
	assert.Contains(t, res.Body, "1 like")
	assert.Contains(t, res.Body, "sunset")

	res = b.Post(fmt.Sprintf("/add_comment/%d", post.ID), url.Values{"comment_text": {""}})
	require.Equal(t, "/", res.Location)
	res = b.Get("/")
	assert.Contains(t, res.Body, "comment cannot be empty")

	res = b.Post(fmt.Sprintf("/add_comment/%d", post.ID), url.Values{"comment_text": {"gorgeous"}})
	require.Equal(t, "/", res.Location)
	res = b.Get("/")
	assert.Contains(t, res.Body, "gorgeous")

	res = b.Post("/follow/ghost", url.Values{})
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestMessagingFlow(t *testing.T) {
	b, appCtx := newBrowser(t)
	apptest.User(t, appCtx, "alice", "pw")
	bob := apptest.User(t, appCtx, "bob", "pw")

	b.Login("alice", "pw")

	path := fmt.Sprintf("/conversation/%d", bob.ID)
	res := b.Get(path)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Conversation with")

	res = b.Post(path, url.Values{"message_text": {"   "}})
	require.Equal(t, path, res.Location)
	res = b.Get(path)
	assert.Contains(t, res.Body, "message cannot be empty")

	res = b.Post(path, url.Values{"message_text": {"hello bob"}})
	require.Equal(t, path, res.Location)
	res = b.Get(path)
	assert.Contains(t, res.Body, "hello bob")

	res = b.Get("/messages")
	assert.Contains(t, res.Body, "bob")

	res = b.Post(path+"/delete", url.Values{})
	require.Equal(t, "/messages", res.Location)
	res = b.Get("/messages")
	assert.Contains(t, res.Body, "Conversation deleted.")
	assert.Contains(t, res.Body, "No conversations yet.")

	res = b.Get("/conversation/999")
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestSearchIsPublic(t *testing.T) {
	b, appCtx := newBrowser(t)
	alice := apptest.User(t, appCtx, "alice", "pw")
	apptest.Post(t, appCtx, alice.ID, "Cats are great", time.Now().UTC())

	res := b.Get("/search?query=CAT")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Cats are great")

	res = b.Get("/search?query=")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Please enter a search query.")
}

func TestCatFactDegradesGracefully(t *testing.T) {
	appCtx, _ := apptest.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	cfg := apptest.Config()
	cfg.CatFact.URL = upstream.URL
	appCtx.CatFacts = catfact.New(cfg)

	b := apptest.NewBrowser(t, newRouter(appCtx))
	apptest.User(t, appCtx, "alice", "pw")
	b.Login("alice", "pw")

	res := b.Get("/cat_fact")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "No cat fact available right now.")
	assert.Contains(t, res.Body, "Could not fetch a cat fact right now.")
}

func TestCatFact(t *testing.T) {
	appCtx, _ := apptest.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fact":"Cats have five toes on their front paws.","length":40}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := apptest.Config()
	cfg.CatFact.URL = upstream.URL
	appCtx.CatFacts = catfact.New(cfg)

	b := apptest.NewBrowser(t, newRouter(appCtx))
	apptest.User(t, appCtx, "alice", "pw")
	b.Login("alice", "pw")

	res := b.Get("/cat_fact")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "Cats have five toes on their front paws.")
}

func TestHealthz(t *testing.T) {
	appCtx, mr := apptest.New(t)
	b := apptest.NewBrowser(t, newRouter(appCtx))

	res := b.Get("/healthz")
	assert.Equal(t, http.StatusOK, res.Status)

	mr.Close()
	res = b.Get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
}

func TestLogout(t *testing.T) {
	b, appCtx := newBrowser(t)
	apptest.User(t, appCtx, "alice", "pw")
	b.Login("alice", "pw")

	res := b.Get("/logout")
	require.Equal(t, "/login", res.Location)

	res = b.Get("/login")
	assert.Contains(t, res.Body, "You have been logged out.")

	res = b.Get("/")
	assert.Equal(t, "/login", res.Location)
}
