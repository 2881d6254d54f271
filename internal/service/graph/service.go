package graph

import (
	"context"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/repository"
)

// Service manages the directed follow graph.
type Service struct {
	appCtx     *app.AppContext
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
}

func NewGraphService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		userRepo:   repository.NewUserRepository(appCtx.DB),
		followRepo: repository.NewFollowRepository(appCtx.DB),
	}
}

// ResolveUser looks a follow target up by username.
func (s *Service) ResolveUser(ctx context.Context, username string) (*db.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return u, nil
}

// Follow makes actorID follow targetID.
//
// Behavior:
//   - actorID == targetID → ErrSelfFollow.
//   - Already following → no-op, no error.
func (s *Service) Follow(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return svcErr.ErrSelfFollow
	}
	created, err := s.followRepo.Follow(ctx, actorID, targetID)
	if err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("follow", "follower", actorID, "followed", targetID, "created", created)
	return nil
}

// Unfollow removes the edge. Missing edge is a no-op; unfollowing yourself
// is rejected like following yourself.
func (s *Service) Unfollow(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return svcErr.ErrSelfFollow
	}
	removed, err := s.followRepo.Unfollow(ctx, actorID, targetID)
	if err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("unfollow", "follower", actorID, "followed", targetID, "removed", removed)
	return nil
}

func (s *Service) IsFollowing(ctx context.Context, a, b uint64) (bool, error) {
	ok, err := s.followRepo.IsFollowing(ctx, a, b)
	return ok, svcErr.Map(err)
}

func (s *Service) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.followRepo.CountFollowers(ctx, userID)
	return n, svcErr.Map(err)
}

func (s *Service) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.followRepo.CountFollowing(ctx, userID)
	return n, svcErr.Map(err)
}
