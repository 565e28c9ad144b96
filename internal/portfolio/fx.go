package portfolio

import (
	"context"

	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/config"
	"github.com/revops-labs/pulse/internal/portfolio/service"
	"github.com/revops-labs/pulse/internal/portfolio/snapshot"
)

var Module = fx.Module("portfolio.service",
	fx.Provide(service.NewService),
	fx.Provide(snapshot.NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, cfg config.Config, worker *snapshot.Worker) {
	if !cfg.Snapshot.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
