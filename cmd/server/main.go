package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/cache"
	"github.com/oggyb/photoshare/internal/catfact"
	"github.com/oggyb/photoshare/internal/config"
	"github.com/oggyb/photoshare/internal/db"
	"github.com/oggyb/photoshare/internal/logger"
	"github.com/oggyb/photoshare/internal/server"
	"github.com/oggyb/photoshare/internal/service/account"
	"github.com/oggyb/photoshare/internal/service/content"
	"github.com/oggyb/photoshare/internal/service/feed"
	"github.com/oggyb/photoshare/internal/service/graph"
	"github.com/oggyb/photoshare/internal/service/messaging"
	"github.com/oggyb/photoshare/internal/web"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg, log)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis (optional)
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	if cfg.IsDevelopment() {
		if err := db.SeedTestData(database, log); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	site, err := web.NewSite(web.NewSessions(cfg))
	if err != nil {
		log.Error("failed to load templates", "err", err)
		os.Exit(1)
	}
	facts := catfact.New(cfg)
	defer facts.Close()

	appCtx := app.New(cfg, database, redisCache, log, site, facts)

	accounts := account.NewRegistrar(appCtx)
	router := server.NewRouter(appCtx, accounts.Service().GetByID,
		accounts,
		graph.NewRegistrar(appCtx),
		content.NewRegistrar(appCtx),
		feed.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
		log.Info("starting HTTP server", "addr", addr)
		return server.StartHTTPServer(ctx, addr, router)
	})

	if cfg.GRPC.Port != "" {
		health := server.NewHealthRegistrar(appCtx)
		if err := health.Refresh(ctx); err != nil {
			log.Warn("dependencies not healthy at startup", "err", err)
		}

		g.Go(func() error {
			health.Watch(ctx, server.HealthProbeInterval)
			return nil
		})

		g.Go(func() error {
			addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
			log.Info("starting gRPC server", "addr", addr)
			return server.StartGRPCServer(ctx, addr, health)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
