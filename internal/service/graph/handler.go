package graph

import (
	"context"
	"fmt"
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

func (h *handler) follow(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.svc.Follow, web.NoticeSuccess, "You are now following %s!")
}

func (h *handler) unfollow(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.svc.Unfollow, web.NoticeInfo, "You have unfollowed %s.")
}

// apply resolves the target, runs op and redirects back to the profile.
func (h *handler) apply(w http.ResponseWriter, r *http.Request, op func(context.Context, uint64, uint64) error, kind, format string) {
	site := h.appCtx.Site
	username := mux.Vars(r)["username"]
	back := "/profile/" + url.PathEscape(username)

	target, err := h.svc.ResolveUser(r.Context(), username)
	if err != nil {
		site.Fail(w, r, err, back)
		return
	}
	if err := op(r.Context(), web.CurrentUser(r.Context()).ID, target.ID); err != nil {
		site.Fail(w, r, err, back)
		return
	}
	site.Flash(w, r, kind, fmt.Sprintf(format, target.Username))
	site.Redirect(w, r, back)
}
