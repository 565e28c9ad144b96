// Package snapshot runs the periodic portfolio capture loop.
package snapshot

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/revops-labs/pulse/internal/config"
	"github.com/revops-labs/pulse/internal/observability/metrics"
	portfoliodomain "github.com/revops-labs/pulse/internal/portfolio/domain"
)

const runTimeout = 30 * time.Second

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	Portfolio portfoliodomain.Service
}

type Worker struct {
	log       *zap.Logger
	interval  time.Duration
	portfolio portfoliodomain.Service
}

func NewWorker(p Params) *Worker {
	interval := p.Config.Snapshot.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		log:       p.Log.Named("portfolio.snapshot"),
		interval:  interval,
		portfolio: p.Portfolio,
	}
}

// RunForever captures one snapshot immediately, then on every tick until
// the context is cancelled.
func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Warn("portfolio snapshot run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	snap, err := w.portfolio.CaptureSnapshot(ctx)
	if err != nil {
		metrics.Portfolio().IncSnapshotRun("error")
		return err
	}
	metrics.Portfolio().IncSnapshotRun("ok")
	w.log.Debug("portfolio snapshot captured",
		zap.String("snapshot_id", snap.ID.String()),
		zap.Int("queue_depth", snap.QueueDepth),
	)
	return nil
}
