package account

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/metrics"
	"github.com/oggyb/photoshare/internal/repository"
	"github.com/oggyb/photoshare/internal/service/content"
)

// Service handles registration, authentication and profiles.
type Service struct {
	appCtx     *app.AppContext
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	postRepo   *repository.PostRepository
	content    *content.Service
}

// NewAccountService creates the service with dependencies from AppContext.
func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		userRepo:   repository.NewUserRepository(appCtx.DB),
		followRepo: repository.NewFollowRepository(appCtx.DB),
		postRepo:   repository.NewPostRepository(appCtx.DB),
		content:    content.NewContentService(appCtx),
	}
}

// Register creates an account.
//
// Behavior:
//   - Blank username or password → ErrEmptyCredentials.
//   - Existing username (exact match) → ErrDuplicateUsername.
//   - A concurrent registration that wins the unique index also yields
//     ErrDuplicateUsername.
//   - The password is stored as a bcrypt hash.
//
// Example:
//
//	u, err := svc.Register(ctx, "alice", "s3cret")
func (s *Service) Register(ctx context.Context, username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, svcErr.ErrEmptyCredentials
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if exists {
		return nil, svcErr.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{Username: username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(svcErr.Map(err), svcErr.ErrConflict) {
			return nil, svcErr.ErrDuplicateUsername
		}
		return nil, svcErr.Map(err)
	}

	metrics.RegisterSuccess.Inc()
	s.appCtx.Logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks credentials. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		mapped := svcErr.Map(err)
		if errors.Is(mapped, svcErr.ErrNotFound) {
			metrics.LoginFailure.WithLabelValues("unknown_user").Inc()
			return nil, svcErr.ErrInvalidCredentials
		}
		return nil, mapped
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginFailure.WithLabelValues("bad_password").Inc()
		return nil, svcErr.ErrInvalidCredentials
	}

	metrics.LoginSuccess.Inc()
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return user, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return user, nil
}

// UpdateProfile sets the bio and, when non-empty, the profile picture.
func (s *Service) UpdateProfile(ctx context.Context, actorID uint64, bio, picture string) error {
	return svcErr.Map(s.userRepo.UpdateProfile(ctx, actorID, bio, strings.TrimSpace(picture)))
}

// ProfileView is everything the profile page shows.
type ProfileView struct {
	User        db.User
	Posts       []content.PostView
	Followers   int64
	Following   int64
	IsSelf      bool
	IsFollowing bool
	CanFollow   bool
}

// Profile loads a public profile. viewer may be nil.
func (s *Service) Profile(ctx context.Context, username string, viewer *db.User) (*ProfileView, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	views, err := s.content.Decorate(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: *user, Posts: views}
	if view.Followers, err = s.followRepo.CountFollowers(ctx, user.ID); err != nil {
		return nil, svcErr.Map(err)
	}
	if view.Following, err = s.followRepo.CountFollowing(ctx, user.ID); err != nil {
		return nil, svcErr.Map(err)
	}

	if viewer != nil {
		view.IsSelf = viewer.ID == user.ID
		view.CanFollow = !view.IsSelf
		if view.CanFollow {
			if view.IsFollowing, err = s.followRepo.IsFollowing(ctx, viewer.ID, user.ID); err != nil {
				return nil, svcErr.Map(err)
			}
		}
	}
	return view, nil
}
