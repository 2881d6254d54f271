package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/oggyb/photoshare/internal/db"
	apperr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger attaches a request-scoped logger to the context and logs one
// line per request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With("request_id", requestID(), "method", r.Method, "path", r.URL.Path)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(logger.WithContext(r.Context(), l)))

			l.Info("request", "status", sw.status, logger.Since(start))
		})
	}
}

func requestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Recoverer turns a panic into a 500 and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("panic", "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// UserLookup resolves a session user id.
type UserLookup func(ctx context.Context, id uint64) (*db.User, error)

// LoadUser resolves the session's user and stores it in the request
// context. A session pointing at a vanished user is treated as anonymous.
func (s *Site) LoadUser(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := s.Sessions.UserID(r); ok {
				u, err := lookup(r.Context(), id)
				switch {
				case err == nil:
					r = r.WithContext(WithUser(r.Context(), u))
				case !apperr.Is(err, apperr.ErrNotFound):
					logger.FromContext(r.Context()).Warn("failed to load session user", "user_id", id, "err", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func (s *Site) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			s.Fail(w, r, apperr.ErrUnauthenticated, "")
			return
		}
		next(w, r)
	}
}
