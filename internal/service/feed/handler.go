package feed

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/utils/pagination"
	"github.com/oggyb/photoshare/internal/web"
)

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site

	page, err := pagination.Parse(mux.Vars(r)["page"], h.svc.PageSize())
	if err != nil {
		site.Fail(w, r, svcErr.ErrInvalidPage, "/")
		return
	}

	view, err := h.svc.GetFeed(r.Context(), web.CurrentUser(r.Context()), page)
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Render(w, r, http.StatusOK, "feed", "Feed", view)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site

	view, err := h.svc.Search(r.Context(), web.CurrentUser(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	if view.Query == "" {
		site.Flash(w, r, web.NoticeInfo, "Please enter a search query.")
	}
	site.Render(w, r, http.StatusOK, "search", "Search", view)
}
