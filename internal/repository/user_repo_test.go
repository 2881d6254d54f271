package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/repository"
)

func TestUserCreateAndLookup(t *testing.T) {
	repo := repository.NewUserRepository(setupTestDB(t))

	u := &db.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, db.DefaultProfilePicture, got.Picture())

	_, err = repo.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserDuplicateUsername(t *testing.T) {
	repo := repository.NewUserRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &db.User{Username: "bob", PasswordHash: "a"}))
	err := repo.Create(ctx, &db.User{Username: "bob", PasswordHash: "b"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserUpdateProfile(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)
	u := mustUser(t, database, "carol")

	require.NoError(t, repo.UpdateProfile(ctx, u.ID, "hello", "https://img.example/me.png"))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "https://img.example/me.png", got.Picture())

	// empty picture keeps the current one
	require.NoError(t, repo.UpdateProfile(ctx, u.ID, "", ""))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Bio)
	assert.Equal(t, "https://img.example/me.png", got.ProfilePicture)

	assert.ErrorIs(t, repo.UpdateProfile(ctx, 999, "x", ""), gorm.ErrRecordNotFound)
}

func TestUserSearch(t *testing.T) {
	database := setupTestDB(t)
	repo := repository.NewUserRepository(database)
	mustUser(t, database, "CatLover")
	mustUser(t, database, "dog_person")
	mustUser(t, database, "bobcat")
	mustUser(t, database, "dogXperson")

	users, err := repo.SearchByUsername(ctx, "CAT")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CatLover", users[0].Username)
	assert.Equal(t, "bobcat", users[1].Username)

	// underscore is literal, not a wildcard
	users, err = repo.SearchByUsername(ctx, "g_p")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "dog_person", users[0].Username)

	users, err = repo.SearchByUsername(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, users)
}
