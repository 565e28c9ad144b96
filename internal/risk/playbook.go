package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Action is a recommended retention playbook.
type Action string

const (
	ActionExecutiveSponsorEscalation Action = "Executive Sponsor Escalation"
	ActionRiskMitigationPlan         Action = "Risk Mitigation Plan"
	ActionStrategySession            Action = "Strategy Session"
	ActionValueRealizationReport     Action = "Value Realization Report"
)

type playbookKey struct {
	status   Status
	largeARR bool
	drift    bool
}

type rationaleContext struct {
	thresholds         Thresholds
	arr                decimal.Decimal
	daysSinceLastTouch int
}

// playbookRow binds one action to its rationale. Wildcard fields (nil)
// match either value, and rows apply in order, so exactly one row fires
// per qualifying account.
type playbookRow struct {
	status    Status
	largeARR  *bool
	drift     *bool
	action    Action
	rationale func(rc rationaleContext) string
}

func (r playbookRow) matches(key playbookKey) bool {
	if r.status != key.status {
		return false
	}
	if r.largeARR != nil && *r.largeARR != key.largeARR {
		return false
	}
	if r.drift != nil && *r.drift != key.drift {
		return false
	}
	return true
}

func buildPlaybook(t Thresholds) []playbookRow {
	yes := true
	return []playbookRow{
		{
			status:   StatusCritical,
			largeARR: &yes,
			action:   ActionExecutiveSponsorEscalation,
			rationale: func(rc rationaleContext) string {
				return fmt.Sprintf("$%sk ARR account at critical health", thousands(rc.arr))
			},
		},
		{
			status: StatusCritical,
			action: ActionRiskMitigationPlan,
			rationale: func(rc rationaleContext) string {
				return fmt.Sprintf("health score below critical threshold (%d)", rc.thresholds.CriticalHealth)
			},
		},
		{
			status: StatusAtRisk,
			action: ActionStrategySession,
			rationale: func(rc rationaleContext) string {
				return fmt.Sprintf("health score below warning threshold (%d)", rc.thresholds.WarningHealth)
			},
		},
		{
			status: StatusHealthy,
			drift:  &yes,
			action: ActionValueRealizationReport,
			rationale: func(rc rationaleContext) string {
				return fmt.Sprintf("no contact for %d days", rc.daysSinceLastTouch)
			},
		},
	}
}

func (c *Classifier) lookup(key playbookKey) playbookRow {
	for _, row := range c.playbook {
		if row.matches(key) {
			return row
		}
	}
	// Unreachable for accounts that passed NeedsIntervention; the table
	// covers every qualifying combination.
	panic(fmt.Sprintf("risk: no playbook row for %+v", key))
}

func thousands(arr decimal.Decimal) string {
	return arr.DivRound(decimal.NewFromInt(1000), 0).String()
}
