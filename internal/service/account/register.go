package account

import (
	"github.com/gorilla/mux"

	"github.com/oggyb/photoshare/internal/app"
)

// Registrar ties the account routes into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
	svc    *Service
}

// NewRegistrar creates a new Registrar for the account service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx, svc: NewAccountService(appCtx)}
}

// Service exposes the account service so the router can resolve session
// users through it.
func (r *Registrar) Service() *Service { return r.svc }

// Register attaches auth and profile routes.
func (r *Registrar) Register(router *mux.Router) {
	h := &handler{svc: r.svc, appCtx: r.appCtx}
	site := r.appCtx.Site

	router.HandleFunc("/register", h.registerForm).Methods("GET")
	router.HandleFunc("/register", h.register).Methods("POST")
	router.HandleFunc("/login", h.loginForm).Methods("GET")
	router.HandleFunc("/login", h.login).Methods("POST")
	router.HandleFunc("/logout", h.logout).Methods("GET")
	router.HandleFunc("/profile/{username}", h.profile).Methods("GET")
	router.HandleFunc("/edit_profile", site.RequireUser(h.editProfileForm)).Methods("GET")
	router.HandleFunc("/edit_profile", site.RequireUser(h.editProfile)).Methods("POST")
}
