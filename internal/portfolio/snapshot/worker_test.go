package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/revops-labs/pulse/internal/config"
	portfoliodomain "github.com/revops-labs/pulse/internal/portfolio/domain"
)

type stubPortfolio struct {
	captures int
	err      error
}

func (s *stubPortfolio) Overview(context.Context) (portfoliodomain.Overview, error) {
	return portfoliodomain.Overview{}, nil
}

func (s *stubPortfolio) RiskByTier(context.Context) ([]portfoliodomain.TierRiskRow, error) {
	return nil, nil
}

func (s *stubPortfolio) HealthScatter(context.Context) ([]portfoliodomain.ScatterPoint, error) {
	return nil, nil
}

func (s *stubPortfolio) TopAccounts(context.Context, int) ([]portfoliodomain.TopAccount, error) {
	return nil, nil
}

func (s *stubPortfolio) CaptureSnapshot(context.Context) (portfoliodomain.Snapshot, error) {
	s.captures++
	if s.err != nil {
		return portfoliodomain.Snapshot{}, s.err
	}
	return portfoliodomain.Snapshot{CapturedAt: time.Now().UTC()}, nil
}

func (s *stubPortfolio) SnapshotHistory(context.Context, int) ([]portfoliodomain.Snapshot, error) {
	return nil, nil
}

func (s *stubPortfolio) InvalidateCache() {}

func newTestWorker(stub *stubPortfolio, interval time.Duration) *Worker {
	cfg := config.Config{}
	cfg.Snapshot.Interval = interval
	return NewWorker(Params{
		Log:       zap.NewNop(),
		Config:    cfg,
		Portfolio: stub,
	})
}

func TestRunOnceCaptures(t *testing.T) {
	stub := &stubPortfolio{}
	w := newTestWorker(stub, time.Hour)

	if err := w.RunOnce(); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if stub.captures != 1 {
		t.Fatalf("expected 1 capture, got %d", stub.captures)
	}
}

func TestRunOncePropagatesError(t *testing.T) {
	stub := &stubPortfolio{err: errors.New("db down")}
	w := newTestWorker(stub, time.Hour)

	if err := w.RunOnce(); err == nil {
		t.Fatal("expected capture error")
	}
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	stub := &stubPortfolio{}
	w := newTestWorker(stub, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.RunForever(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	if stub.captures < 2 {
		t.Fatalf("expected multiple captures, got %d", stub.captures)
	}
}
