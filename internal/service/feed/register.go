package feed

import (
	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
)

// Registrar ties the feed and search routes into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewFeedService(r.appCtx), appCtx: r.appCtx}
	site := r.appCtx.Site

	router.HandleFunc("/", site.RequireUser(h.index)).Methods("GET")
	router.HandleFunc("/page/{page}", site.RequireUser(h.index)).Methods("GET")
	router.HandleFunc("/search", h.search).Methods("GET")
}
