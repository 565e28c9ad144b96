// Package domain defines the intervention queue surface.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// QueueEntry is one account requiring attention, with its classification
// and recommended playbook.
type QueueEntry struct {
	AccountID            snowflake.ID    `json:"account_id"`
	Name                 string          `json:"name"`
	Tier                 string          `json:"tier"`
	Industry             string          `json:"industry"`
	CSMOwner             string          `json:"csm_owner"`
	ARR                  decimal.Decimal `json:"arr"`
	HealthScore          int             `json:"health_score"`
	DaysSinceLastTouch   int             `json:"days_since_last_touch"`
	RenewalDaysRemaining int             `json:"renewal_days_remaining"`
	RiskStatus           string          `json:"risk_status"`
	RiskLabel            string          `json:"risk_label"`
	RecommendedAction    string          `json:"recommended_action"`
	Rationale            string          `json:"rationale"`
}

// QueueResponse is the API response for the intervention queue.
type QueueResponse struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Entries     []QueueEntry `json:"entries"`
}

// Service builds the intervention queue from the live portfolio.
type Service interface {
	BuildQueue(ctx context.Context) (QueueResponse, error)
}
