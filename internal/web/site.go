// Package web holds the HTML side of the server: sessions, one-shot
// notices, template rendering and the mapping from application errors to
// redirects or error pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/db"
	apperr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// shared templates are parsed into every page
var shared = []string{"templates/layout.html", "templates/partials.html"}

// Page is the root value every template receives.
type Page struct {
	Title   string
	User    *db.User
	Notices []Notice
	Data    any
}

// ErrorView feeds the error template.
type ErrorView struct {
	Status  int
	Message string
}

// Site renders pages and turns errors into responses.
type Site struct {
	Sessions *Sessions
	pages    map[string]*template.Template
}

// NewSite parses every page template once at startup.
func NewSite(sessions *Sessions) (*Site, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"plural": func(n int64, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		if isShared(f) {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, append(shared, f)...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Site{Sessions: sessions, pages: pages}, nil
}

func isShared(f string) bool {
	for _, s := range shared {
		if s == f {
			return true
		}
	}
	return false
}

// StaticHandler serves embedded assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Render executes the named page inside the layout. Pending notices are
// consumed here.
func (s *Site) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	log := logger.FromContext(r.Context())

	t, ok := s.pages[name]
	if !ok {
		log.Error("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := Page{
		Title:   title,
		User:    CurrentUser(r.Context()),
		Notices: s.Sessions.Notices(w, r),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Error("render failed", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Flash queues a notice for the next rendered page.
func (s *Site) Flash(w http.ResponseWriter, r *http.Request, kind, text string) {
	if err := s.Sessions.AddNotice(w, r, kind, text); err != nil {
		logger.FromContext(r.Context()).Warn("failed to store notice", "err", err)
	}
}

// Redirect always answers 303 so a POST is followed by a GET.
func (s *Site) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Fail converts err into the response the user should see.
//
// Behavior:
//   - Unauthenticated → notice + redirect to /login.
//   - Forbidden → notice + redirect to /.
//   - NotFound → 404 page.
//   - Validation, InvalidCredentials, Conflict → notice + redirect to back.
//   - Anything else is logged and rendered as a 500 page.
func (s *Site) Fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if back == "" {
		back = "/"
	}

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		s.Flash(w, r, NoticeWarning, apperr.Notice(err))
		s.Redirect(w, r, "/login")

	case errors.Is(err, apperr.ErrForbidden):
		s.Flash(w, r, NoticeDanger, apperr.Notice(err))
		s.Redirect(w, r, "/")

	case errors.Is(err, apperr.ErrNotFound):
		s.Render(w, r, http.StatusNotFound, "error", "Not found", ErrorView{
			Status:  http.StatusNotFound,
			Message: apperr.Notice(err),
		})

	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrConflict):
		s.Flash(w, r, NoticeDanger, apperr.Notice(err))
		s.Redirect(w, r, back)

	default:
		logger.FromContext(r.Context()).Error("request failed", "err", err)
		s.Render(w, r, apperr.Status(err), "error", "Error", ErrorView{
			Status:  apperr.Status(err),
			Message: apperr.Notice(err),
		})
	}
}

// PathID parses a numeric route variable. Anything unparsable is NotFound.
func PathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}
