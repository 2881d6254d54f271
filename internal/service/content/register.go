package content

import (
	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
)

// Registrar ties the content routes into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the content service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches post, comment, like and cat fact routes.
func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: NewContentService(r.appCtx), appCtx: r.appCtx}
	site := r.appCtx.Site

	router.HandleFunc("/create_post", site.RequireUser(h.createPostForm)).Methods("GET")
	router.HandleFunc("/create_post", site.RequireUser(h.createPost)).Methods("POST")
	router.HandleFunc("/edit_post/{id:[0-9]+}", site.RequireUser(h.editPostForm)).Methods("GET")
	router.HandleFunc("/edit_post/{id:[0-9]+}", site.RequireUser(h.editPost)).Methods("POST")
	router.HandleFunc("/delete_post/{id:[0-9]+}", site.RequireUser(h.deletePost)).Methods("POST")
	router.HandleFunc("/add_comment/{id:[0-9]+}", site.RequireUser(h.addComment)).Methods("POST")
	router.HandleFunc("/like_post/{id:[0-9]+}", site.RequireUser(h.likePost)).Methods("POST")
	router.HandleFunc("/cat_fact", site.RequireUser(h.catFact)).Methods("GET")
}
