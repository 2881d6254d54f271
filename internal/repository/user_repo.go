package repository

import (
	"context"
	"fmt"

	"github.com/oggyb/photoshare/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. A username collision surfaces as
// gorm.ErrDuplicatedKey (the unique index is the source of truth, the
// service's existence check is only a fast path).
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// GetByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername is an exact, case-sensitive lookup.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByUsername checks for an exact username match.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile sets the bio and, when picture is non-empty, the profile
// picture.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, bio, picture string) error {
	updates := map[string]any{"bio": bio}
	if picture != "" {
		updates["profile_picture"] = picture
	}
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update profile %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchByUsername returns users whose username contains q, ignoring case,
// ordered by username.
func (r *UserRepository) SearchByUsername(ctx context.Context, q string) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '!'", containsPattern(q)).
		Order("username ASC").
		Find(&users).Error
	return users, err
}
