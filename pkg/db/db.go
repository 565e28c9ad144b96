// Package db opens the embedded sqlite store and provides it to fx.
package db

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/revops-labs/pulse/internal/config"
)

// Open connects to the sqlite database at cfg.DatabasePath.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabasePath
	if dsn == ":memory:" {
		dsn = "file::memory:?cache=shared"
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	conn, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", cfg.DatabasePath, err)
	}

	// sqlite allows a single writer; bounding the pool avoids lock errors
	// under concurrent handlers.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Info("database opened", zap.String("path", cfg.DatabasePath))
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
	}),
)
