package content

import (
	"net/http"
	"net/url"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/logger"
	"github.com/oggyb/photoshare/internal/metrics"
	"github.com/oggyb/photoshare/internal/web"
)

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

func (h *handler) createPostForm(w http.ResponseWriter, r *http.Request) {
	h.appCtx.Site.Render(w, r, http.StatusOK, "create_post", "New post", nil)
}

func (h *handler) createPost(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user := web.CurrentUser(r.Context())

	if _, err := h.svc.CreatePost(r.Context(), user.ID, r.FormValue("image_url"), r.FormValue("caption")); err != nil {
		site.Fail(w, r, err, "/create_post")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Post created successfully!")
	site.Redirect(w, r, "/")
}

func (h *handler) editPostForm(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	id, err := web.PathID(r, "id")
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}

	post, err := h.svc.PostForEdit(r.Context(), web.CurrentUser(r.Context()).ID, id)
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Render(w, r, http.StatusOK, "edit_post", "Edit post", post)
}

func (h *handler) editPost(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user := web.CurrentUser(r.Context())
	id, err := web.PathID(r, "id")
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}

	if err := h.svc.EditPost(r.Context(), user.ID, id, r.FormValue("image_url"), r.FormValue("caption")); err != nil {
		site.Fail(w, r, err, r.URL.Path)
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Post updated successfully!")
	site.Redirect(w, r, profileURL(user.Username))
}

func (h *handler) deletePost(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user := web.CurrentUser(r.Context())
	id, err := web.PathID(r, "id")
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}

	if err := h.svc.DeletePost(r.Context(), user.ID, id); err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Post deleted successfully!")
	site.Redirect(w, r, profileURL(user.Username))
}

func (h *handler) addComment(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	id, err := web.PathID(r, "id")
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}

	if _, err := h.svc.AddComment(r.Context(), web.CurrentUser(r.Context()).ID, id, r.FormValue("comment_text")); err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Flash(w, r, web.NoticeSuccess, "Comment added successfully!")
	site.Redirect(w, r, "/")
}

func (h *handler) likePost(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	id, err := web.PathID(r, "id")
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}

	liked, err := h.svc.ToggleLike(r.Context(), web.CurrentUser(r.Context()).ID, id)
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	if liked {
		site.Flash(w, r, web.NoticeSuccess, "Post liked!")
	} else {
		site.Flash(w, r, web.NoticeInfo, "Post unliked.")
	}
	site.Redirect(w, r, "/")
}

type catFactView struct {
	Fact string
}

// catFact never fails the request: an upstream error renders "no data".
func (h *handler) catFact(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site

	fact, err := h.appCtx.CatFacts.Fetch(r.Context())
	if err != nil {
		metrics.CatFactFailures.Inc()
		logger.FromContext(r.Context()).Warn("cat fact unavailable", "err", err)
		site.Flash(w, r, web.NoticeDanger, "Could not fetch a cat fact right now.")
	}
	site.Render(w, r, http.StatusOK, "cat_fact", "Cat fact", catFactView{Fact: fact})
}
