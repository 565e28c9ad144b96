// Package service computes portfolio aggregates for the dashboard. All
// views derive from one classified pass over the book of business, cached
// briefly so chart fan-out does not re-scan the table per request.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
	"github.com/revops-labs/pulse/internal/cache"
	"github.com/revops-labs/pulse/internal/clock"
	"github.com/revops-labs/pulse/internal/observability/metrics"
	portfoliodomain "github.com/revops-labs/pulse/internal/portfolio/domain"
	"github.com/revops-labs/pulse/internal/risk"
)

const (
	aggregatesKey = "portfolio.aggregates"
	aggregatesTTL = 30 * time.Second

	defaultTopAccounts     = 10
	defaultSnapshotHistory = 30
)

type classifiedAccount struct {
	account accountdomain.Account
	status  risk.Status
	renewal int
	touch   int
	queued  bool
}

type aggregates struct {
	generatedAt time.Time
	accounts    []classifiedAccount
	overview    portfoliodomain.Overview
	tiers       []portfoliodomain.TierRiskRow
	queueDepth  int
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Classifier *risk.Classifier
	Accounts   accountdomain.Service
	Activity   activitydomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	classifier *risk.Classifier
	accounts   accountdomain.Service
	activity   activitydomain.Service
	cache      *cache.TTL[string, aggregates]
}

func NewService(p ServiceParam) portfoliodomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("portfolio.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		classifier: p.Classifier,
		accounts:   p.Accounts,
		activity:   p.Activity,
		cache:      cache.NewTTL[string, aggregates](),
	}
}

func (s *Service) Overview(ctx context.Context) (portfoliodomain.Overview, error) {
	agg, err := s.load(ctx)
	if err != nil {
		return portfoliodomain.Overview{}, err
	}
	return agg.overview, nil
}

func (s *Service) RiskByTier(ctx context.Context) ([]portfoliodomain.TierRiskRow, error) {
	agg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return agg.tiers, nil
}

func (s *Service) HealthScatter(ctx context.Context) ([]portfoliodomain.ScatterPoint, error) {
	agg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	points := make([]portfoliodomain.ScatterPoint, 0, len(agg.accounts))
	for _, ca := range agg.accounts {
		points = append(points, portfoliodomain.ScatterPoint{
			AccountID:   ca.account.ID,
			Name:        ca.account.Name,
			Tier:        string(ca.account.Tier),
			HealthScore: ca.account.HealthScore,
			ARR:         ca.account.ARR,
			RiskStatus:  string(ca.status),
		})
	}
	return points, nil
}

func (s *Service) TopAccounts(ctx context.Context, limit int) ([]portfoliodomain.TopAccount, error) {
	if limit <= 0 {
		limit = defaultTopAccounts
	}
	agg, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]classifiedAccount, len(agg.accounts))
	copy(ranked, agg.accounts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].account.ARR.GreaterThan(ranked[j].account.ARR)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make([]portfoliodomain.TopAccount, 0, len(ranked))
	for _, ca := range ranked {
		top = append(top, portfoliodomain.TopAccount{
			AccountID:            ca.account.ID,
			Name:                 ca.account.Name,
			Tier:                 string(ca.account.Tier),
			CSMOwner:             ca.account.CSMOwner,
			ARR:                  ca.account.ARR,
			HealthScore:          ca.account.HealthScore,
			RiskStatus:           string(ca.status),
			RenewalDaysRemaining: ca.renewal,
		})
	}
	return top, nil
}

// CaptureSnapshot recomputes the aggregates, persists them as a snapshot
// row and refreshes the exported gauges.
func (s *Service) CaptureSnapshot(ctx context.Context) (portfoliodomain.Snapshot, error) {
	agg, err := s.compute(ctx)
	if err != nil {
		return portfoliodomain.Snapshot{}, err
	}

	snap := portfoliodomain.Snapshot{
		ID:            s.genID.Generate(),
		CapturedAt:    agg.generatedAt,
		TotalARR:      agg.overview.TotalARR,
		AtRiskARR:     agg.overview.AtRiskARR,
		AverageHealth: agg.overview.AverageHealth,
		QueueDepth:    agg.queueDepth,
		CreatedAt:     agg.generatedAt,
	}
	byStatus := make(map[string]int, len(agg.overview.StatusCounts))
	for _, sc := range agg.overview.StatusCounts {
		byStatus[sc.Status] = sc.Count
		switch risk.Status(sc.Status) {
		case risk.StatusHealthy:
			snap.HealthyCount = sc.Count
		case risk.StatusAtRisk:
			snap.AtRiskCount = sc.Count
		case risk.StatusCritical:
			snap.CriticalCount = sc.Count
		}
	}

	if err := s.db.WithContext(ctx).Create(&snap).Error; err != nil {
		return portfoliodomain.Snapshot{}, fmt.Errorf("persist snapshot: %w", err)
	}

	metrics.Portfolio().ObserveSnapshot(
		agg.overview.TotalARR.InexactFloat64(),
		agg.overview.AtRiskARR.InexactFloat64(),
		agg.overview.AverageHealth,
		byStatus,
		agg.queueDepth,
	)

	snapID := snap.ID.String()
	_ = s.activity.Record(ctx, activitydomain.ActorSystem, activitydomain.ActionSnapshotCaptured, "portfolio_snapshot", &snapID, map[string]any{
		"total_accounts": agg.overview.TotalAccounts,
		"queue_depth":    agg.queueDepth,
	})

	return snap, nil
}

func (s *Service) SnapshotHistory(ctx context.Context, limit int) ([]portfoliodomain.Snapshot, error) {
	if limit <= 0 {
		limit = defaultSnapshotHistory
	}
	var snaps []portfoliodomain.Snapshot
	err := s.db.WithContext(ctx).
		Order("captured_at DESC, id DESC").
		Limit(limit).
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// InvalidateCache drops the cached aggregates. Called after portfolio
// mutations such as a re-sync.
func (s *Service) InvalidateCache() {
	s.cache.Purge()
}

func (s *Service) load(ctx context.Context) (aggregates, error) {
	return s.cache.GetOrCompute(aggregatesKey, aggregatesTTL, func() (aggregates, error) {
		return s.compute(ctx)
	})
}

func (s *Service) compute(ctx context.Context) (aggregates, error) {
	now := s.clock.Now()

	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return aggregates{}, fmt.Errorf("load portfolio: %w", err)
	}

	window := s.classifier.Thresholds().RenewalWindowDays
	classified := make([]classifiedAccount, 0, len(accounts))
	statusCounts := map[risk.Status]int{}
	tierRows := map[accountdomain.Tier]*portfoliodomain.TierRiskRow{}

	totalARR := decimal.Zero
	atRiskARR := decimal.Zero
	healthSum := 0
	renewalsDue := 0
	queueDepth := 0

	for _, a := range accounts {
		renewal := a.RenewalDaysRemaining(now)
		touch := a.DaysSinceLastTouch(now)
		status := s.classifier.Classify(a.HealthScore, renewal)
		queued := s.classifier.NeedsIntervention(status, touch)

		classified = append(classified, classifiedAccount{
			account: a,
			status:  status,
			renewal: renewal,
			touch:   touch,
			queued:  queued,
		})

		statusCounts[status]++
		totalARR = totalARR.Add(a.ARR)
		healthSum += a.HealthScore
		if status != risk.StatusHealthy {
			atRiskARR = atRiskARR.Add(a.ARR)
		}
		// Past-due contracts are a risk signal, not an upcoming renewal.
		if renewal >= 0 && renewal < window {
			renewalsDue++
		}
		if queued {
			queueDepth++
		}

		row, ok := tierRows[a.Tier]
		if !ok {
			row = &portfoliodomain.TierRiskRow{Tier: string(a.Tier)}
			tierRows[a.Tier] = row
		}
		switch status {
		case risk.StatusCritical:
			row.Critical++
		case risk.StatusAtRisk:
			row.AtRisk++
		default:
			row.Healthy++
		}
	}

	avgHealth := 0.0
	if len(accounts) > 0 {
		avgHealth = float64(healthSum) / float64(len(accounts))
	}

	overview := portfoliodomain.Overview{
		GeneratedAt:     now,
		TotalAccounts:   len(accounts),
		TotalARR:        totalARR,
		AtRiskARR:       atRiskARR,
		AverageHealth:   avgHealth,
		RenewalsDueSoon: renewalsDue,
		StatusCounts:    statusCountsSlice(statusCounts),
	}

	return aggregates{
		generatedAt: now,
		accounts:    classified,
		overview:    overview,
		tiers:       tierRowsSlice(tierRows),
		queueDepth:  queueDepth,
	}, nil
}

// statusCountsSlice emits the distribution in severity order, zero slices
// included so charts keep a stable legend.
func statusCountsSlice(counts map[risk.Status]int) []portfoliodomain.StatusCount {
	ordered := []risk.Status{risk.StatusCritical, risk.StatusAtRisk, risk.StatusHealthy}
	out := make([]portfoliodomain.StatusCount, 0, len(ordered))
	for _, status := range ordered {
		out = append(out, portfoliodomain.StatusCount{
			Status: string(status),
			Label:  status.Label(),
			Count:  counts[status],
		})
	}
	return out
}

func tierRowsSlice(rows map[accountdomain.Tier]*portfoliodomain.TierRiskRow) []portfoliodomain.TierRiskRow {
	ordered := []accountdomain.Tier{accountdomain.TierStrategic, accountdomain.TierGrowth, accountdomain.TierSMB}
	out := make([]portfoliodomain.TierRiskRow, 0, len(rows))
	for _, tier := range ordered {
		if row, ok := rows[tier]; ok {
			out = append(out, *row)
		}
	}
	return out
}
