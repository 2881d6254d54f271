package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/logger"
	"github.com/oggyb/photoshare/internal/metrics"
	"github.com/oggyb/photoshare/internal/web"
)

// NewRouter wires middleware, ops endpoints and every page route.
//
// Middleware order, outermost first:
//  1. panic recovery
//  2. request-scoped logger
//  3. request metrics (labelled by route template)
//  4. session user → request context
func NewRouter(appCtx *app.AppContext, lookup web.UserLookup, routes ...RouteRegistrar) *mux.Router {
	r := mux.NewRouter()
	site := appCtx.Site

	r.Use(web.Recoverer)
	r.Use(web.RequestLogger(appCtx.Logger))
	r.Use(metrics.InstrumentHandler)
	r.Use(site.LoadUser(lookup))

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", healthz(appCtx)).Methods("GET")
	r.PathPrefix("/static/").Handler(web.StaticHandler())

	for _, rr := range routes {
		rr.Register(r)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		site.Render(w, req, http.StatusNotFound, "error", "Not found", web.ErrorView{
			Status:  http.StatusNotFound,
			Message: "The page you are looking for does not exist.",
		})
	})

	return r
}

// Probe checks the DB and, when configured, Redis.
func Probe(ctx context.Context, appCtx *app.AppContext) error {
	sqlDB, err := appCtx.DB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	if err := appCtx.RedisCache.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func healthz(appCtx *app.AppContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := Probe(ctx, appCtx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

// StartHTTPServer serves handler on addr until ctx is cancelled, then drains
// in-flight requests.
func StartHTTPServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
