package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/photoshare/internal/cache"
	"github.com/oggyb/photoshare/internal/catfact"
	"github.com/oggyb/photoshare/internal/config"
	"github.com/oggyb/photoshare/internal/web"
)

// AppContext holds shared dependencies (config, DB, Redis, logger, site).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Site       *web.Site
	CatFacts   *catfact.Client
}

// New creates a new AppContext. rdb may be nil when caching is disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, site *web.Site, facts *catfact.Client) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Site:       site,
		CatFacts:   facts,
	}
}
