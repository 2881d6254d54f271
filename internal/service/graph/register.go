package graph

import (
	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
)

// Registrar ties the follow routes into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewGraphService(r.appCtx), appCtx: r.appCtx}
	site := r.appCtx.Site

	router.HandleFunc("/follow/{username}", site.RequireUser(h.follow)).Methods("POST")
	router.HandleFunc("/unfollow/{username}", site.RequireUser(h.unfollow)).Methods("POST")
}
