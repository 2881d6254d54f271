package repository

import (
	"context"
	"strings"

	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/utils/pagination"

	"gorm.io/gorm"
)

// FeedRepository composes the personalized feed.
type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(database *gorm.DB) *FeedRepository {
	return &FeedRepository{db: database}
}

// feedScope selects posts written by userID or by anyone userID follows.
// A single predicate over posts means every post appears at most once.
func (r *FeedRepository) feedScope(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		followed := r.db.Model(&db.Follow{}).
			Select("followed_id").
			Where("follower_id = ?", userID)
		return tx.Where("user_id = ? OR user_id IN (?)", userID, followed)
	}
}

// Feed returns one page of the user's feed, newest first, and the total
// number of posts in the feed.
//
// Behavior:
//   - Union of own posts and followed users' posts, deduplicated.
//   - Ordered by created_at DESC, id DESC for a stable order on ties.
//   - A page past the end returns an empty slice.
//
// Example:
//
//	posts, total, err := repo.Feed(ctx, 1, pagination.New(2, 10))
func (r *FeedRepository) Feed(ctx context.Context, userID uint64, page pagination.Page) ([]db.Post, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Scopes(r.feedScope(userID)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	posts := []db.Post{}
	if int64(page.Offset()) >= total {
		return posts, total, nil
	}

	err = r.db.WithContext(ctx).
		Scopes(r.feedScope(userID), withDetails).
		Order("created_at DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&posts).Error
	return posts, total, err
}

// containsPattern builds a lower-cased LIKE pattern for a substring match.
// '!' is the escape character so user input cannot inject wildcards.
func containsPattern(q string) string {
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(strings.ToLower(q))
	return "%" + escaped + "%"
}
