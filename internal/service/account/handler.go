package account

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/web"
)

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.appCtx.Site.Render(w, r, http.StatusOK, "register", "Register", nil)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	if _, err := h.svc.Register(r.Context(), r.FormValue("username"), r.FormValue("password")); err != nil {
		site.Fail(w, r, err, "/register")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Registration successful! Please log in.")
	site.Redirect(w, r, "/login")
}

func (h *handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.appCtx.Site.Render(w, r, http.StatusOK, "login", "Log in", nil)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user, err := h.svc.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		site.Fail(w, r, err, "/login")
		return
	}
	if err := site.Sessions.Login(w, r, user.ID); err != nil {
		site.Fail(w, r, err, "/login")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Logged in successfully!")
	site.Redirect(w, r, "/")
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	if err := site.Sessions.Logout(w, r); err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Flash(w, r, web.NoticeInfo, "You have been logged out.")
	site.Redirect(w, r, "/login")
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	view, err := h.svc.Profile(r.Context(), mux.Vars(r)["username"], web.CurrentUser(r.Context()))
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Render(w, r, http.StatusOK, "profile", view.User.Username, view)
}

func (h *handler) editProfileForm(w http.ResponseWriter, r *http.Request) {
	h.appCtx.Site.Render(w, r, http.StatusOK, "edit_profile", "Edit profile", web.CurrentUser(r.Context()))
}

func (h *handler) editProfile(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user := web.CurrentUser(r.Context())
	if err := h.svc.UpdateProfile(r.Context(), user.ID, r.FormValue("bio"), r.FormValue("profile_picture")); err != nil {
		site.Fail(w, r, err, "/edit_profile")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Profile updated successfully!")
	site.Redirect(w, r, "/profile/"+url.PathEscape(user.Username))
}
