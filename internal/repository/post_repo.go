package repository

import (
	"context"
	"fmt"

	"github.com/oggyb/photoshare/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository provides data access for posts and their comments.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(database *gorm.DB) *PostRepository {
	return &PostRepository{db: database}
}

// withDetails preloads what a rendered post needs: author and comments
// (oldest first) with their authors.
func withDetails(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Author")
}

func (r *PostRepository) Create(ctx context.Context, post *db.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// GetByID returns the post with author and comments loaded.
func (r *PostRepository) GetByID(ctx context.Context, id uint64) (*db.Post, error) {
	var p db.Post
	if err := r.db.WithContext(ctx).Scopes(withDetails).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists is a cheap existence probe used before writes that hang off a post.
func (r *PostRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update replaces image and caption. An empty caption is stored as-is.
func (r *PostRepository) Update(ctx context.Context, id uint64, imageURL, caption string) error {
	res := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{"image_url": imageURL, "caption": caption})
	if res.Error != nil {
		return fmt.Errorf("update post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the post together with its comments and likes.
//
// Behavior:
//   - Runs in one transaction: either every dependent row and the post are
//     gone, or nothing changed.
//   - Missing post → gorm.ErrRecordNotFound and the transaction rolls back.
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes of post %d: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&db.Post{})
		if res.Error != nil {
			return fmt.Errorf("delete post %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByUser returns a user's posts newest first.
func (r *PostRepository) ListByUser(ctx context.Context, userID uint64) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// SearchByCaption returns posts whose caption contains q, ignoring case,
// newest first.
func (r *PostRepository) SearchByCaption(ctx context.Context, q string) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("LOWER(caption) LIKE ? ESCAPE '!'", containsPattern(q)).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// AddComment appends a comment to a post.
func (r *PostRepository) AddComment(ctx context.Context, comment *db.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// ListComments returns a post's comments oldest first.
func (r *PostRepository) ListComments(ctx context.Context, postID uint64) ([]db.Comment, error) {
	var comments []db.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}
