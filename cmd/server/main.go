package main

import (
	"context"
	"os"

	"github.com/cragmatch/cragmatch/internal/app"
	"github.com/cragmatch/cragmatch/internal/cache"
	"github.com/cragmatch/cragmatch/internal/config"
	"github.com/cragmatch/cragmatch/internal/db"
	"github.com/cragmatch/cragmatch/internal/logger"
	"github.com/cragmatch/cragmatch/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(cfg, database, redisCache, log)

	if os.Getenv("APP_ENV") == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	if err := server.Start(appCtx); err != nil {
		log.Error("record-store server stopped", "err", err)
	}
}
