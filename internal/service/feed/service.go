package feed

import (
	"context"
	"strings"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/repository"
	"github.com/oggyb/photoshare/internal/service/content"
	"github.com/oggyb/photoshare/internal/utils/pagination"
)

// Service composes the personalized feed and keyword search.
type Service struct {
	appCtx   *app.AppContext
	feedRepo *repository.FeedRepository
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
	content  *content.Service
}

func NewFeedService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		feedRepo: repository.NewFeedRepository(appCtx.DB),
		userRepo: repository.NewUserRepository(appCtx.DB),
		postRepo: repository.NewPostRepository(appCtx.DB),
		content:  content.NewContentService(appCtx),
	}
}

// FeedView is one page of the feed.
type FeedView struct {
	Posts []content.PostView
	Page  pagination.Page
}

// SearchView holds both halves of a search.
type SearchView struct {
	Query string
	Users []db.User
	Posts []content.PostView
}

// PageSize is the configured feed page size.
func (s *Service) PageSize() int {
	if s.appCtx.Config == nil {
		return pagination.DefaultPageSize
	}
	return s.appCtx.Config.Feed.PageSize
}

// GetFeed returns one page of viewer's feed.
//
// Behavior:
//   - Own posts plus posts of followed users, each exactly once.
//   - Newest first; ties broken by id.
//   - A page past the end is empty, not an error.
//
// Example:
//
//	view, err := svc.GetFeed(ctx, user, pagination.New(2, svc.PageSize()))
func (s *Service) GetFeed(ctx context.Context, viewer *db.User, page pagination.Page) (*FeedView, error) {
	posts, total, err := s.feedRepo.Feed(ctx, viewer.ID, page)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	page.Total = total

	views, err := s.content.Decorate(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("feed", "user_id", viewer.ID, "page", page.Number, "count", len(views), "total", total)
	return &FeedView{Posts: views, Page: page}, nil
}

// Search matches usernames and captions containing query, ignoring case.
// A blank query returns an empty result, not an error. viewer may be nil.
func (s *Service) Search(ctx context.Context, viewer *db.User, query string) (*SearchView, error) {
	query = strings.TrimSpace(query)
	view := &SearchView{Query: query, Users: []db.User{}, Posts: []content.PostView{}}
	if query == "" {
		return view, nil
	}

	users, err := s.userRepo.SearchByUsername(ctx, query)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	posts, err := s.postRepo.SearchByCaption(ctx, query)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	views, err := s.content.Decorate(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	view.Users = users
	view.Posts = views
	return view, nil
}
