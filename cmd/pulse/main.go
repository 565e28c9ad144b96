package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/revops-labs/pulse/internal/account"
	"github.com/revops-labs/pulse/internal/activity"
	"github.com/revops-labs/pulse/internal/clock"
	"github.com/revops-labs/pulse/internal/config"
	"github.com/revops-labs/pulse/internal/intervention"
	"github.com/revops-labs/pulse/internal/migration"
	"github.com/revops-labs/pulse/internal/observability"
	"github.com/revops-labs/pulse/internal/observability/logger"
	"github.com/revops-labs/pulse/internal/portfolio"
	"github.com/revops-labs/pulse/internal/risk"
	"github.com/revops-labs/pulse/internal/seed"
	"github.com/revops-labs/pulse/internal/server"
	"github.com/revops-labs/pulse/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		fx.Provide(func(cfg config.Config) *risk.Classifier {
			return risk.NewClassifier(cfg.Risk)
		}),
		clock.Module,
		db.Module,
		observability.Module,
		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config, log *zap.Logger) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if !cfg.SeedOnStart {
				return nil
			}
			created, err := seed.EnsurePortfolio(conn, node, cfg.SeedSize)
			if err != nil {
				return err
			}
			if created > 0 {
				log.Info("portfolio seeded",
					zap.Int("accounts", created),
					zap.String("version", version),
				)
			}
			return nil
		}),
		account.Module,
		activity.Module,
		intervention.Module,
		portfolio.Module,
		server.Module,
	)
	app.Run()
}
