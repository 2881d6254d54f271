package repository

import (
	"context"

	"github.com/oggyb/photoshare/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository manages the directed follow graph.
// Every mutation is a single idempotent statement against the composite key.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(database *gorm.DB) *FollowRepository {
	return &FollowRepository{db: database}
}

// Follow inserts follower -> followed if absent.
//
// Behavior:
//   - Already following → no-op, created = false.
//   - Self-edges are not rejected here; that is an application rule.
//
// Example:
//
//	repo.Follow(ctx, 1, 2) // user 1 now follows user 2
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
			DoNothing: true,
		}).
		Create(&db.Follow{FollowerID: followerID, FollowedID: followedID})
	return res.RowsAffected > 0, res.Error
}

// Unfollow removes the edge; a missing edge is a no-op.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&db.Follow{})
	return res.RowsAffected > 0, res.Error
}

// IsFollowing is an O(1) lookup on the composite key.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// CountFollowers counts users following userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts users that userID follows.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}
