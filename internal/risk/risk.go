// Package risk classifies account health into churn-risk tiers and
// recommends a retention playbook per account. Classification is a pure
// function of the input record; it performs no I/O and keeps no state
// beyond its configured thresholds.
package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the churn-risk tier derived from health score and renewal proximity.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusAtRisk   Status = "at_risk"
	StatusCritical Status = "critical"
)

// Label returns the display form used by the dashboard.
func (s Status) Label() string {
	switch s {
	case StatusCritical:
		return "Critical"
	case StatusAtRisk:
		return "At Risk"
	case StatusHealthy:
		return "Healthy"
	default:
		return string(s)
	}
}

// Thresholds holds the tunable cutoffs for classification and playbook
// selection. Zero values fall back to defaults; the cutoffs are
// configuration, not literals.
type Thresholds struct {
	// CriticalHealth is the health score below which an account with an
	// imminent renewal is critical.
	CriticalHealth int
	// WarningHealth is the health score below which an account is at risk.
	WarningHealth int
	// RenewalWindowDays bounds "renewal imminent". Negative remaining days
	// (contract past due) always fall inside the window.
	RenewalWindowDays int
	// EscalationARR is the annual recurring revenue above which a critical
	// account is escalated to an executive sponsor.
	EscalationARR decimal.Decimal
	// DriftDays is the contact gap after which a healthy account still
	// qualifies for intervention.
	DriftDays int
}

// DefaultThresholds returns the standard cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalHealth:    50,
		WarningHealth:     70,
		RenewalWindowDays: 90,
		EscalationARR:     decimal.NewFromInt(250000),
		DriftDays:         90,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	defaults := DefaultThresholds()
	if t.CriticalHealth <= 0 {
		t.CriticalHealth = defaults.CriticalHealth
	}
	if t.WarningHealth <= 0 {
		t.WarningHealth = defaults.WarningHealth
	}
	if t.RenewalWindowDays <= 0 {
		t.RenewalWindowDays = defaults.RenewalWindowDays
	}
	if t.EscalationARR.LessThanOrEqual(decimal.Zero) {
		t.EscalationARR = defaults.EscalationARR
	}
	if t.DriftDays <= 0 {
		t.DriftDays = defaults.DriftDays
	}
	return t
}

// Input is one account record as supplied by the upstream source. The
// classifier never mutates it.
type Input struct {
	Name                 string          `json:"name"`
	Tier                 string          `json:"tier"`
	ARR                  decimal.Decimal `json:"arr"`
	HealthScore          int             `json:"health_score"`
	DaysSinceLastTouch   int             `json:"days_since_last_touch"`
	RenewalDaysRemaining int             `json:"renewal_days_remaining"`
}

var (
	ErrMissingName       = errors.New("account name is required")
	ErrNegativeARR       = errors.New("arr must be non-negative")
	ErrNegativeTouchDays = errors.New("days since last touch must be non-negative")
)

// Validate rejects malformed records at the caller boundary. Out-of-range
// health scores are not an error: the classifier compares numerically.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrMissingName
	}
	if in.ARR.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeARR, in.ARR)
	}
	if in.DaysSinceLastTouch < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTouchDays, in.DaysSinceLastTouch)
	}
	return nil
}

// Classified is the derived output record for one qualifying account.
type Classified struct {
	Input
	Status    Status `json:"status"`
	Action    Action `json:"action"`
	Rationale string `json:"rationale"`
}

// Classifier applies the threshold rules. Safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
	playbook   []playbookRow
}

// NewClassifier builds a classifier with the given thresholds, filling
// defaults for any zero cutoff.
func NewClassifier(t Thresholds) *Classifier {
	t = t.withDefaults()
	return &Classifier{
		thresholds: t,
		playbook:   buildPlaybook(t),
	}
}

// Thresholds returns the effective cutoffs.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify derives the churn-risk tier. Rules apply in priority order,
// first match wins:
//
//  1. renewal inside the window AND health below the critical cutoff -> Critical
//  2. health below the warning cutoff -> At Risk
//  3. otherwise -> Healthy
//
// A negative renewalDaysRemaining means the contract is already past due
// and counts as inside the window.
func (c *Classifier) Classify(healthScore, renewalDaysRemaining int) Status {
	switch {
	case renewalDaysRemaining < c.thresholds.RenewalWindowDays && healthScore < c.thresholds.CriticalHealth:
		return StatusCritical
	case healthScore < c.thresholds.WarningHealth:
		return StatusAtRisk
	default:
		return StatusHealthy
	}
}

// NeedsIntervention reports whether an account belongs on the intervention
// queue: any non-healthy account, or a healthy account whose contact gap
// exceeds the drift cutoff.
func (c *Classifier) NeedsIntervention(status Status, daysSinceLastTouch int) bool {
	return status != StatusHealthy || daysSinceLastTouch > c.thresholds.DriftDays
}

// Recommend selects the retention playbook for an account that already
// passed NeedsIntervention. Action and rationale come from a single
// decision-table row, so they cannot desynchronize.
func (c *Classifier) Recommend(status Status, arr decimal.Decimal, daysSinceLastTouch int) (Action, string) {
	key := playbookKey{
		status:   status,
		largeARR: arr.GreaterThan(c.thresholds.EscalationARR),
		drift:    daysSinceLastTouch > c.thresholds.DriftDays,
	}
	row := c.lookup(key)
	return row.action, row.rationale(rationaleContext{
		thresholds:         c.thresholds,
		arr:                arr,
		daysSinceLastTouch: daysSinceLastTouch,
	})
}

// ClassifyAccount runs the full pipeline for a single record: validate,
// classify, gate, recommend. The second return is false when the account
// does not qualify for intervention.
func (c *Classifier) ClassifyAccount(in Input) (Classified, bool, error) {
	if err := in.Validate(); err != nil {
		return Classified{}, false, err
	}

	status := c.Classify(in.HealthScore, in.RenewalDaysRemaining)
	if !c.NeedsIntervention(status, in.DaysSinceLastTouch) {
		return Classified{}, false, nil
	}

	action, rationale := c.Recommend(status, in.ARR, in.DaysSinceLastTouch)
	return Classified{
		Input:     in,
		Status:    status,
		Action:    action,
		Rationale: rationale,
	}, true, nil
}

// BuildInterventionQueue classifies every record and returns the qualifying
// subset. Output order follows input order; sorting is the caller's concern.
// The first malformed record aborts the batch.
func (c *Classifier) BuildInterventionQueue(inputs []Input) ([]Classified, error) {
	queue := make([]Classified, 0, len(inputs))
	for _, in := range inputs {
		classified, ok, err := c.ClassifyAccount(in)
		if err != nil {
			return nil, fmt.Errorf("classify %q: %w", in.Name, err)
		}
		if !ok {
			continue
		}
		queue = append(queue, classified)
	}
	return queue, nil
}
