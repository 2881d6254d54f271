package web

import (
	"context"

	"github.com/oggyb/photoshare/internal/db"
)

type userCtxKey struct{}

// WithUser stores the authenticated user for the rest of the request.
func WithUser(ctx context.Context, u *db.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(ctx context.Context) *db.User {
	u, _ := ctx.Value(userCtxKey{}).(*db.User)
	return u
}
