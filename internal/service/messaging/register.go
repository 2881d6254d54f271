package messaging

import (
	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
)

// Registrar ties the messaging routes into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewMessagingService(r.appCtx), appCtx: r.appCtx}
	site := r.appCtx.Site

	router.HandleFunc("/messages", site.RequireUser(h.inbox)).Methods("GET")
	router.HandleFunc("/conversation/{otherUserId:[0-9]+}", site.RequireUser(h.thread)).Methods("GET")
	router.HandleFunc("/conversation/{otherUserId:[0-9]+}", site.RequireUser(h.send)).Methods("POST")
	router.HandleFunc("/conversation/{otherUserId:[0-9]+}/delete", site.RequireUser(h.delete)).Methods("POST")
}
