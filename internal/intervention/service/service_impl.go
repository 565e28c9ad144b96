// Package service builds the intervention queue: classify the live
// portfolio, keep the accounts that need attention, order by revenue at
// stake.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
	"github.com/revops-labs/pulse/internal/clock"
	interventiondomain "github.com/revops-labs/pulse/internal/intervention/domain"
	"github.com/revops-labs/pulse/internal/risk"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Classifier *risk.Classifier
	Accounts   accountdomain.Service
	Activity   activitydomain.Service
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	classifier *risk.Classifier
	accounts   accountdomain.Service
	activity   activitydomain.Service
}

func NewService(p ServiceParam) interventiondomain.Service {
	return &Service{
		log:        p.Log.Named("intervention.service"),
		clock:      p.Clock,
		classifier: p.Classifier,
		accounts:   p.Accounts,
		activity:   p.Activity,
	}
}

// BuildQueue classifies every account and returns the qualifying subset,
// largest ARR first so the most revenue at stake surfaces at the top.
func (s *Service) BuildQueue(ctx context.Context) (interventiondomain.QueueResponse, error) {
	now := s.clock.Now()

	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return interventiondomain.QueueResponse{}, fmt.Errorf("load portfolio: %w", err)
	}

	entries := make([]interventiondomain.QueueEntry, 0, len(accounts))
	for _, a := range accounts {
		classified, ok, err := s.classifier.ClassifyAccount(risk.Input{
			Name:                 a.Name,
			Tier:                 string(a.Tier),
			ARR:                  a.ARR,
			HealthScore:          a.HealthScore,
			DaysSinceLastTouch:   a.DaysSinceLastTouch(now),
			RenewalDaysRemaining: a.RenewalDaysRemaining(now),
		})
		if err != nil {
			return interventiondomain.QueueResponse{}, fmt.Errorf("classify account %s: %w", a.ID, err)
		}
		if !ok {
			continue
		}
		entries = append(entries, toQueueEntry(a, classified))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ARR.GreaterThan(entries[j].ARR)
	})

	s.recordRun(ctx, now, len(accounts), len(entries))

	return interventiondomain.QueueResponse{
		GeneratedAt: now,
		Entries:     entries,
	}, nil
}

func toQueueEntry(a accountdomain.Account, c risk.Classified) interventiondomain.QueueEntry {
	return interventiondomain.QueueEntry{
		AccountID:            a.ID,
		Name:                 a.Name,
		Tier:                 string(a.Tier),
		Industry:             a.Industry,
		CSMOwner:             a.CSMOwner,
		ARR:                  a.ARR,
		HealthScore:          a.HealthScore,
		DaysSinceLastTouch:   c.DaysSinceLastTouch,
		RenewalDaysRemaining: c.RenewalDaysRemaining,
		RiskStatus:           string(c.Status),
		RiskLabel:            c.Status.Label(),
		RecommendedAction:    string(c.Action),
		Rationale:            c.Rationale,
	}
}

func (s *Service) recordRun(ctx context.Context, now time.Time, scanned, queued int) {
	_ = s.activity.Record(ctx, activitydomain.ActorSystem, activitydomain.ActionInterventionRun, "portfolio", nil, map[string]any{
		"scanned":      scanned,
		"queued":       queued,
		"generated_at": now.Format(time.RFC3339),
	})
}
