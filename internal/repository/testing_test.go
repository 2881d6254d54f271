package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/photoshare/internal/db"
)

// setupTestDB opens a private in-memory database with the full schema.
// A single connection keeps sqlite from reporting table locks when tests
// drive the repositories from several goroutines.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Discard,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

func mustUser(t *testing.T, database *gorm.DB, username string) db.User {
	t.Helper()
	u := db.User{Username: username, PasswordHash: "x"}
	require.NoError(t, database.Create(&u).Error)
	return u
}

func mustPost(t *testing.T, database *gorm.DB, userID uint64, caption string, at time.Time) db.Post {
	t.Helper()
	p := db.Post{UserID: userID, ImageURL: "https://img.example/" + caption, Caption: caption, CreatedAt: at}
	require.NoError(t, database.Omit("Author", "Comments").Create(&p).Error)
	return p
}

var ctx = context.Background()
