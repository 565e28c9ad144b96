// Package domain defines the portfolio analytics surface: the KPI
// overview, the chart series, and the persisted point-in-time snapshots.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// StatusCount is one slice of the risk distribution.
type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// Overview is the KPI header row of the dashboard.
type Overview struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	TotalAccounts int             `json:"total_accounts"`
	TotalARR      decimal.Decimal `json:"total_arr"`
	// AtRiskARR is the revenue held by accounts classified at-risk or
	// critical.
	AtRiskARR     decimal.Decimal `json:"at_risk_arr"`
	AverageHealth float64         `json:"average_health"`
	// RenewalsDueSoon counts contracts renewing inside the configured
	// window; already-lapsed contracts are excluded.
	RenewalsDueSoon int           `json:"renewals_due_soon"`
	StatusCounts    []StatusCount `json:"status_counts"`
}

// TierRiskRow is the risk distribution within one commercial segment.
type TierRiskRow struct {
	Tier     string `json:"tier"`
	Healthy  int    `json:"healthy"`
	AtRisk   int    `json:"at_risk"`
	Critical int    `json:"critical"`
}

// ScatterPoint is one account plotted as health score against ARR.
type ScatterPoint struct {
	AccountID   snowflake.ID    `json:"account_id"`
	Name        string          `json:"name"`
	Tier        string          `json:"tier"`
	HealthScore int             `json:"health_score"`
	ARR         decimal.Decimal `json:"arr"`
	RiskStatus  string          `json:"risk_status"`
}

// TopAccount is one row of the largest-accounts table.
type TopAccount struct {
	AccountID            snowflake.ID    `json:"account_id"`
	Name                 string          `json:"name"`
	Tier                 string          `json:"tier"`
	CSMOwner             string          `json:"csm_owner"`
	ARR                  decimal.Decimal `json:"arr"`
	HealthScore          int             `json:"health_score"`
	RiskStatus           string          `json:"risk_status"`
	RenewalDaysRemaining int             `json:"renewal_days_remaining"`
}

// Snapshot is one persisted capture of the portfolio aggregates, written
// by the snapshot worker for trend reporting.
type Snapshot struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CapturedAt    time.Time       `gorm:"not null;index" json:"captured_at"`
	TotalARR      decimal.Decimal `gorm:"type:numeric;not null" json:"total_arr"`
	AtRiskARR     decimal.Decimal `gorm:"type:numeric;not null" json:"at_risk_arr"`
	AverageHealth float64         `gorm:"not null" json:"average_health"`
	HealthyCount  int             `gorm:"not null" json:"healthy_count"`
	AtRiskCount   int             `gorm:"not null" json:"at_risk_count"`
	CriticalCount int             `gorm:"not null" json:"critical_count"`
	QueueDepth    int             `gorm:"not null" json:"queue_depth"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "portfolio_snapshots" }

// Service computes the dashboard aggregates. Reads are cached briefly;
// InvalidateCache forces the next read to recompute.
type Service interface {
	Overview(ctx context.Context) (Overview, error)
	RiskByTier(ctx context.Context) ([]TierRiskRow, error)
	HealthScatter(ctx context.Context) ([]ScatterPoint, error)
	TopAccounts(ctx context.Context, limit int) ([]TopAccount, error)
	CaptureSnapshot(ctx context.Context) (Snapshot, error)
	SnapshotHistory(ctx context.Context, limit int) ([]Snapshot, error)
	InvalidateCache()
}
