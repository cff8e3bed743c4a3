package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sugurico/internal/cache"
	"sugurico/internal/config"
	"sugurico/internal/database"
	"sugurico/internal/metrics"
	"sugurico/internal/repository"
	"sugurico/internal/service"
	"sugurico/internal/storage"
)

// App connects the backing stores and builds the services on top of them.
func App(ctx context.Context, cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) (*database.DB, *service.Service, error) {
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		db.CloseDB()
		return nil, nil, fmt.Errorf("ストレージを初期化できません: %w", err)
	}

	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, service.Deps{
		Storage: store,
		Cache:   connectCache(ctx, cfg, log),
		Metrics: m,
		Log:     log,
		Ping:    db.HealthCheck,
	})

	return db, services, nil
}

// connectCache falls back to an in-process store when Redis is unreachable,
// so a single instance keeps working; counters are then not shared.
func connectCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) cache.Store {
	client := cache.NewRedisClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, using in-memory cache")
		client.Close()
		return cache.NewMemory()
	}

	return cache.NewRedisStore(client)
}
