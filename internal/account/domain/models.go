// Package domain contains the account portfolio models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Tier is the commercial segment of an account. Informational only; the
// risk classifier never reads it.
type Tier string

const (
	TierStrategic Tier = "strategic"
	TierGrowth    Tier = "growth"
	TierSMB       Tier = "smb"
)

// Valid reports whether the tier is one of the known segments.
func (t Tier) Valid() bool {
	switch t {
	case TierStrategic, TierGrowth, TierSMB:
		return true
	default:
		return false
	}
}

// Account is one customer in the portfolio.
type Account struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:text;not null;index" json:"name"`
	Industry    string          `gorm:"type:text;not null" json:"industry"`
	Tier        Tier            `gorm:"type:text;not null;index" json:"tier"`
	ARR         decimal.Decimal `gorm:"type:numeric;not null" json:"arr"`
	Employees   int             `gorm:"not null" json:"employees"`
	RenewalDate time.Time       `gorm:"not null;index" json:"renewal_date"`
	LastTouchAt time.Time       `gorm:"not null" json:"last_touch_at"`
	// HealthScore is the 0-100 composite computed upstream.
	HealthScore int               `gorm:"not null" json:"health_score"`
	CSMOwner    string            `gorm:"column:csm_owner;type:text;not null" json:"csm_owner"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// RenewalDaysRemaining is the whole number of days until renewal relative
// to now. Negative when the contract is past due.
func (a Account) RenewalDaysRemaining(now time.Time) int {
	return int(a.RenewalDate.Sub(now).Hours() / 24)
}

// DaysSinceLastTouch is the whole number of days since the last recorded
// touchpoint relative to now.
func (a Account) DaysSinceLastTouch(now time.Time) int {
	days := int(now.Sub(a.LastTouchAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// CreateAccountRequest carries the fields for a new account.
type CreateAccountRequest struct {
	Name        string          `json:"name"`
	Industry    string          `json:"industry"`
	Tier        Tier            `json:"tier"`
	ARR         decimal.Decimal `json:"arr"`
	Employees   int             `json:"employees"`
	RenewalDate time.Time       `json:"renewal_date"`
	LastTouchAt time.Time       `json:"last_touch_at"`
	HealthScore int             `json:"health_score"`
	CSMOwner    string          `json:"csm_owner"`
}

// ListAccountsRequest carries the dashboard filter row.
type ListAccountsRequest struct {
	Tier     Tier
	Industry string
	// Search matches account names case-insensitively.
	Search string
	Limit  int
}

// ListAccountsResponse is the API response for account listing.
type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
	Total    int64     `json:"total"`
}

var (
	ErrNotFound         = errors.New("account_not_found")
	ErrInvalidID        = errors.New("invalid_account_id")
	ErrInvalidName      = errors.New("invalid_account_name")
	ErrInvalidTier      = errors.New("invalid_account_tier")
	ErrInvalidARR       = errors.New("invalid_account_arr")
	ErrInvalidHealth    = errors.New("invalid_health_score")
	ErrInvalidRenewal   = errors.New("invalid_renewal_date")
	ErrInvalidLastTouch = errors.New("invalid_last_touch")
)
