package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/oggyb/photoshare/internal/config"
)

// SessionName is the cookie that carries the signed session.
const SessionName = "photoshare-session"

const userIDKey = "user_id"

// Notice kinds, mirrored by CSS classes in the layout.
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind string
	Text string
}

func init() {
	gob.Register(Notice{})
}

// Sessions wraps a gorilla cookie store. Only the user id and pending
// notices live in the cookie.
type Sessions struct {
	store sessions.Store
}

// NewSessions builds the cookie store. Without SESSION_SECRET a random key is
// generated, which logs everybody out on restart.
func NewSessions(cfg *config.Config) *Sessions {
	secret := []byte(cfg.HTTP.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.HTTP.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// get never fails: a tampered or stale cookie yields a fresh session.
func (s *Sessions) get(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, SessionName)
	return sess
}

// Login binds the session to userID.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uint64) error {
	sess := s.get(r)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Logout forgets the user but keeps pending notices.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	delete(sess.Values, userIDKey)
	return sess.Save(r, w)
}

// UserID returns the logged-in user id, if any.
func (s *Sessions) UserID(r *http.Request) (uint64, bool) {
	id, ok := s.get(r).Values[userIDKey].(uint64)
	return id, ok && id != 0
}

func (s *Sessions) AddNotice(w http.ResponseWriter, r *http.Request, kind, text string) error {
	sess := s.get(r)
	sess.AddFlash(Notice{Kind: kind, Text: text})
	return sess.Save(r, w)
}

// Notices pops every pending notice. Must run before the response header is
// written since it rewrites the cookie.
func (s *Sessions) Notices(w http.ResponseWriter, r *http.Request) []Notice {
	sess := s.get(r)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	notices := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
