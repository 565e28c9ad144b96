// Package domain contains the append-only activity feed models.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actor identifies who produced an activity entry.
const (
	ActorSystem = "system"
	ActorAPI    = "api"
)

// Action names recorded by the services.
const (
	ActionPortfolioSeeded   = "portfolio.seeded"
	ActionPortfolioSynced   = "portfolio.synced"
	ActionInterventionRun   = "intervention.run"
	ActionSnapshotCaptured  = "portfolio.snapshot_captured"
)

// ActivityLog is one immutable feed entry shown on the dashboard.
type ActivityLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	Actor      string            `gorm:"type:text;not null" json:"actor"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"target_type"`
	TargetID   *string           `gorm:"type:text" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (ActivityLog) TableName() string { return "activity_logs" }

// Service records and lists activity entries.
type Service interface {
	Record(ctx context.Context, actor, action, targetType string, targetID *string, metadata map[string]any) error
	Recent(ctx context.Context, limit int) ([]ActivityLog, error)
}
