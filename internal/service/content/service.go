package content

import (
	"context"
	"errors"
	"strings"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/cache"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/metrics"
	"github.com/oggyb/photoshare/internal/repository"
)

// Service owns posts, comments and likes.
type Service struct {
	appCtx   *app.AppContext
	postRepo *repository.PostRepository
	likeRepo *repository.LikeRepository
}

// NewContentService creates the service with repositories bound to the
// shared DB. The like-count cache comes from AppContext and may be nil.
func NewContentService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		postRepo: repository.NewPostRepository(appCtx.DB),
		likeRepo: repository.NewLikeRepository(appCtx.DB),
	}
}

// PostView is a post plus what the viewer needs to render it.
type PostView struct {
	Post  db.Post
	Likes int64
	Liked bool
	Mine  bool
}

// CreatePost publishes a post for authorID. The image reference is stored
// as given.
func (s *Service) CreatePost(ctx context.Context, authorID uint64, imageURL, caption string) (*db.Post, error) {
	post := &db.Post{
		UserID:   authorID,
		ImageURL: strings.TrimSpace(imageURL),
		Caption:  caption,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, svcErr.Map(err)
	}
	metrics.PostsCreated.Inc()
	s.appCtx.Logger.Debug("post created", "post_id", post.ID, "author", authorID)
	return post, nil
}

// GetPost loads a post with author and comments.
func (s *Service) GetPost(ctx context.Context, id uint64) (*db.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return post, nil
}

// ownedPost returns the post if actorID wrote it.
func (s *Service) ownedPost(ctx context.Context, actorID, postID uint64) (*db.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, svcErr.ErrForbidden
	}
	return post, nil
}

// PostForEdit returns the post for the edit form, enforcing ownership.
func (s *Service) PostForEdit(ctx context.Context, actorID, postID uint64) (*db.Post, error) {
	return s.ownedPost(ctx, actorID, postID)
}

// EditPost replaces image and caption.
//
// Behavior:
//   - Missing post → ErrNotFound.
//   - actorID is not the author → ErrForbidden, nothing changes.
func (s *Service) EditPost(ctx context.Context, actorID, postID uint64, imageURL, caption string) error {
	if _, err := s.ownedPost(ctx, actorID, postID); err != nil {
		return err
	}
	return svcErr.Map(s.postRepo.Update(ctx, postID, strings.TrimSpace(imageURL), caption))
}

// DeletePost removes the post with its comments and likes.
//
// Behavior:
//   - Same authorization as EditPost.
//   - Cascade runs in one transaction.
//   - The cached like count is dropped afterwards.
func (s *Service) DeletePost(ctx context.Context, actorID, postID uint64) error {
	if _, err := s.ownedPost(ctx, actorID, postID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return svcErr.Map(err)
	}
	s.invalidateLikeCount(ctx, postID)
	s.appCtx.Logger.Debug("post deleted", "post_id", postID, "actor", actorID)
	return nil
}

// AddComment attaches a comment to an existing post.
func (s *Service) AddComment(ctx context.Context, actorID, postID uint64, text string) (*db.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, svcErr.ErrEmptyComment
	}

	comment := &db.Comment{PostID: postID, UserID: actorID, Text: text}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, svcErr.Map(err)
	}
	metrics.CommentsAdded.Inc()
	return comment, nil
}

// ToggleLike flips the actor's like on a post and returns the new state.
//
// Behavior:
//   - Missing post → ErrNotFound.
//   - Race-safe toggle (see LikeRepository.Toggle).
//   - The cached count is overwritten with a fresh DB count, not adjusted,
//     so it can never drift. If recounting fails the entry is dropped.
//
// Example:
//
//	liked, err := svc.ToggleLike(ctx, 1, 42)
func (s *Service) ToggleLike(ctx context.Context, actorID, postID uint64) (bool, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Toggle(ctx, actorID, postID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	s.refreshLikeCount(ctx, postID)

	state := "unliked"
	if liked {
		state = "liked"
	}
	metrics.LikesToggled.WithLabelValues(state).Inc()
	return liked, nil
}

// LikeCount returns how many users liked the post.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:post:<id>).
//  2. On miss or cache failure, counts in the DB.
//  3. Stores the DB count with a 1h TTL unless a toggle cached a newer one
//     in the meantime.
func (s *Service) LikeCount(ctx context.Context, postID uint64) (int64, error) {
	n, err := s.appCtx.RedisCache.GetLikeCount(ctx, postID)
	if err == nil {
		metrics.LikeCountCache.WithLabelValues("hit").Inc()
		return n, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.appCtx.Logger.Warn("like count cache read failed", "post_id", postID, "err", err)
	}
	metrics.LikeCountCache.WithLabelValues("miss").Inc()

	n, err = s.likeRepo.Count(ctx, postID)
	if err != nil {
		return 0, svcErr.Map(err)
	}
	if err := s.appCtx.RedisCache.FillLikeCount(ctx, postID, n); err != nil {
		s.appCtx.Logger.Warn("like count cache write failed", "post_id", postID, "err", err)
	}
	return n, nil
}

func (s *Service) HasLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	liked, err := s.likeRepo.HasLiked(ctx, userID, postID)
	return liked, svcErr.Map(err)
}

// Decorate attaches like counts and viewer state to posts. viewer may be nil.
func (s *Service) Decorate(ctx context.Context, viewer *db.User, posts []db.Post) ([]PostView, error) {
	liked := map[uint64]bool{}
	if viewer != nil && len(posts) > 0 {
		ids := make([]uint64, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		var err error
		if liked, err = s.likeRepo.LikedAmong(ctx, viewer.ID, ids); err != nil {
			return nil, svcErr.Map(err)
		}
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		n, err := s.LikeCount(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, PostView{
			Post:  p,
			Likes: n,
			Liked: liked[p.ID],
			Mine:  viewer != nil && viewer.ID == p.UserID,
		})
	}
	return views, nil
}

func (s *Service) requirePost(ctx context.Context, postID uint64) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !ok {
		return svcErr.ErrNotFound
	}
	return nil
}

func (s *Service) refreshLikeCount(ctx context.Context, postID uint64) {
	n, err := s.likeRepo.Count(ctx, postID)
	if err != nil {
		s.invalidateLikeCount(ctx, postID)
		return
	}
	if err := s.appCtx.RedisCache.SetLikeCount(ctx, postID, n); err != nil {
		s.appCtx.Logger.Warn("like count cache write failed", "post_id", postID, "err", err)
	}
}

func (s *Service) invalidateLikeCount(ctx context.Context, postID uint64) {
	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, postID); err != nil {
		s.appCtx.Logger.Warn("like count cache invalidation failed", "post_id", postID, "err", err)
	}
}
