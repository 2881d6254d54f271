package repository

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/oggyb/photoshare/internal/db"
	apperr "github.com/oggyb/photoshare/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxToggleAttempts bounds the delete/insert loop in Toggle.
const maxToggleAttempts = 10

// LikeRepository manages likes. The unique (user_id, post_id) index is what
// keeps the toggle correct under concurrency.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Toggle flips the like state of (user, post) and returns the new state.
//
// Behavior:
//   - First tries to delete an existing like; success means "unliked".
//   - Otherwise inserts with ON CONFLICT DO NOTHING; success means "liked".
//   - If the insert hit the unique index, a concurrent toggle liked the post
//     between the two statements, so the loop starts over and unlikes it.
//
// Each successful call flips the row exactly once, so N concurrent toggles
// leave the pair liked iff N is odd, and never more than one row exists.
//
// Example:
//
//	liked, err := repo.Toggle(ctx, 1, 42) // user 1 likes post 42
func (r *LikeRepository) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		res := r.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&db.Like{})
		if res.Error != nil {
			return false, fmt.Errorf("unlike post %d: %w", postID, res.Error)
		}
		if res.RowsAffected > 0 {
			return false, nil
		}

		res = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
				DoNothing: true,
			}).
			Create(&db.Like{UserID: userID, PostID: postID})
		if res.Error != nil {
			return false, fmt.Errorf("like post %d: %w", postID, res.Error)
		}
		if res.RowsAffected > 0 {
			return true, nil
		}
	}
	return false, fmt.Errorf("toggle like on post %d: %w", postID, apperr.ErrConflict)
}

// Count returns the number of likes on a post.
func (r *LikeRepository) Count(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// HasLiked checks whether a user liked a post.
func (r *LikeRepository) HasLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// LikedAmong returns the subset of postIDs the user has liked, as a set.
func (r *LikeRepository) LikedAmong(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	if len(postIDs) == 0 {
		return map[uint64]bool{}, nil
	}
	var liked []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	if err != nil {
		return nil, err
	}
	return lo.Associate(liked, func(id uint64) (uint64, bool) {
		return id, true
	}), nil
}
