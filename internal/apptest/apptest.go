// Package apptest builds fully wired AppContexts and HTTP clients for
// service and handler tests.
package apptest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/cache"
	"github.com/oggyb/photoshare/internal/catfact"
	"github.com/oggyb/photoshare/internal/config"
	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/logger"
	"github.com/oggyb/photoshare/internal/web"
)

var dbSeq atomic.Int64

// Config returns a config suitable for tests: sqlite, no TLS cookies, a
// fixed session secret.
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.App.ENV = "test"
	cfg.DB.Driver = config.DriverSQLite
	cfg.HTTP.SessionSecret = "0123456789abcdef0123456789abcdef"
	cfg.Feed.PageSize = 10
	cfg.CatFact.Timeout = time.Second
	return cfg
}

// New spins up an isolated in-memory SQLite DB with the full schema and a
// miniredis, and wires them into an AppContext.
func New(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	cfg := Config()

	name := fmt.Sprintf("apptest%d", dbSeq.Add(1))
	dbase, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Discard,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = redisCache.Close() })

	site, err := web.NewSite(web.NewSessions(cfg))
	require.NoError(t, err)

	facts := catfact.New(cfg)
	t.Cleanup(func() { _ = facts.Close() })

	return app.New(cfg, dbase, redisCache, logger.Discard(), site, facts), mr
}

// User inserts a user with the given password, hashed at minimum cost.
func User(t *testing.T, appCtx *app.AppContext, username, password string) db.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := db.User{Username: username, PasswordHash: string(hash)}
	require.NoError(t, appCtx.DB.Create(&u).Error)
	return u
}

// Post inserts a post authored by userID at the given time.
func Post(t *testing.T, appCtx *app.AppContext, userID uint64, caption string, at time.Time) db.Post {
	t.Helper()
	p := db.Post{UserID: userID, ImageURL: "https://img.example/p.jpg", Caption: caption, CreatedAt: at}
	require.NoError(t, appCtx.DB.Omit("Author", "Comments").Create(&p).Error)
	return p
}

// Browser is an HTTP client with a cookie jar that does not follow
// redirects, so tests can assert on them.
type Browser struct {
	t      *testing.T
	Server *httptest.Server
	Client *http.Client
}

// NewBrowser starts handler on a test server.
func NewBrowser(t *testing.T, handler http.Handler) *Browser {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &Browser{
		t:      t,
		Server: srv,
		Client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response is a fully read HTTP response.
type Response struct {
	Status   int
	Location string
	Body     string
}

func (b *Browser) Get(path string) Response {
	b.t.Helper()
	res, err := b.Client.Get(b.Server.URL + path)
	require.NoError(b.t, err)
	return read(b.t, res)
}

func (b *Browser) Post(path string, form url.Values) Response {
	b.t.Helper()
	res, err := b.Client.PostForm(b.Server.URL+path, form)
	require.NoError(b.t, err)
	return read(b.t, res)
}

// Login posts the login form and requires the redirect to the feed.
func (b *Browser) Login(username, password string) {
	b.t.Helper()
	res := b.Post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.t, http.StatusSeeOther, res.Status)
	require.Equal(b.t, "/", res.Location)
}

func read(t *testing.T, res *http.Response) Response {
	t.Helper()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return Response{Status: res.StatusCode, Location: res.Header.Get("Location"), Body: string(body)}
}
