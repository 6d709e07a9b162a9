package store

import (
	"context"

	"github.com/mmdatafocus/devitrack/config"
	"github.com/sirupsen/logrus"
)

// Open builds the Repository for the resolved storage mode. The returned
// func closes whatever connections were opened.
//
// A configured but unreachable database or Redis is logged and skipped:
// the service keeps running on the local fallback.
func Open(ctx context.Context, cfg config.AppConfig, logger *logrus.Logger) (*Repository, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var kv KV = NewFileKV(cfg.Fallback.Dir)
	if cfg.Fallback.RedisAddress != "" {
		rdb, locker, err := config.ConnectRedis(ctx, cfg.Fallback.RedisAddress)
		if err != nil {
			logger.WithFields(logrus.Fields{"field": "redis"}).Warn("redis unavailable; using file fallback in " + cfg.Fallback.Dir + ": " + err.Error())
		} else {
			kv = NewRedisKV(rdb, locker)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}
	local := NewLocalStore(kv)

	var remote RemoteStore
	switch cfg.Storage.Kind {
	case config.StorageRemote:
		remote = NewRestStore(cfg.Storage.URL, cfg.Storage.Key, cfg.RemoteTimeout)
	case config.StorageDatabase:
		db, err := config.ConnectDatabase(cfg.Storage.Database, logger)
		if err != nil {
			logger.WithFields(logrus.Fields{"field": "database"}).Warn("database store configured but connection failed; running offline: " + err.Error())
			break
		}
		if sqlDB, derr := db.DB(); derr == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		sqlStore := NewSQLStore(db)
		if cfg.SkipMigrations {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
		} else if err := sqlStore.Migrate(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		remote = sqlStore
	}

	if remote == nil {
		logger.WithFields(logrus.Fields{
			"field": "store",
		}).Warn("remote store not configured (SUPABASE_URL / SUPABASE_ANON_KEY); records are kept in the local fallback store")
	}

	repo := NewRepository(remote, local, logger)
	logger.WithFields(logrus.Fields{
		"field":   "store",
		"mode":    cfg.Storage.String(),
		"backend": repo.Backend(),
	}).Info("storage resolved")

	return repo, closeAll, nil
}
