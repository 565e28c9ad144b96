// Package seed generates the synthetic account portfolio. Generation is
// deterministic for a given seed so the dashboard renders the same book of
// business across restarts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
)

// DefaultSeed keeps the portfolio reproducible across reloads.
const DefaultSeed = 42

const DefaultSize = 200

var industries = []string{"FinTech", "Healthcare", "E-commerce", "Manufacturing", "SaaS", "Logistics"}

var csmOwners = []string{"Jordan", "Priya", "Marcus", "Elena", "Sam", "Aiko", "Noah", "Fatima"}

var companyPrefixes = []string{
	"Acme", "Apex", "Atlas", "Beacon", "Cascade", "Cobalt", "Crest", "Delta",
	"Ember", "Forge", "Granite", "Harbor", "Ionic", "Keystone", "Lumen",
	"Meridian", "Northwind", "Orbit", "Pinnacle", "Quantum", "Ridgeline",
	"Summit", "Tidewater", "Vantage", "Zenith",
}

var companySuffixes = []string{
	"Systems", "Labs", "Industries", "Group", "Logistics", "Dynamics",
	"Networks", "Partners", "Holdings", "Technologies", "Analytics", "Corp",
}

// EnsurePortfolio seeds the synthetic portfolio when the accounts table is
// empty. Returns the number of accounts created (zero when already seeded).
func EnsurePortfolio(db *gorm.DB, node *snowflake.Node, size int) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	ctx := context.Background()
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&accountdomain.Account{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		n, err := insertPortfolio(tx, node, size)
		if err != nil {
			return err
		}
		created = n
		return recordSeeded(tx, node, n)
	})
	return created, err
}

// Rebuild drops the current portfolio and generates a fresh one. Used by
// the sync endpoint.
func Rebuild(db *gorm.DB, node *snowflake.Node, size int) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	ctx := context.Background()
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM accounts`).Error; err != nil {
			return err
		}
		n, err := insertPortfolio(tx, node, size)
		created = n
		return err
	})
	return created, err
}

// recordSeeded writes the feed entry for a fresh portfolio inside the
// seeding transaction, so a seeded book and its feed entry commit together.
func recordSeeded(tx *gorm.DB, node *snowflake.Node, created int) error {
	if created == 0 {
		return nil
	}
	return tx.Create(&activitydomain.ActivityLog{
		ID:         node.Generate(),
		Actor:      activitydomain.ActorSystem,
		Action:     activitydomain.ActionPortfolioSeeded,
		TargetType: "portfolio",
		Metadata:   datatypes.JSONMap{"accounts": created},
		CreatedAt:  time.Now().UTC(),
	}).Error
}

func insertPortfolio(tx *gorm.DB, node *snowflake.Node, size int) (int, error) {
	if size <= 0 {
		size = DefaultSize
	}
	accounts := Generate(DefaultSeed, size, time.Now().UTC())
	for i := range accounts {
		accounts[i].ID = node.Generate()
		if err := tx.Create(&accounts[i]).Error; err != nil {
			return i, fmt.Errorf("insert account %q: %w", accounts[i].Name, err)
		}
	}
	return len(accounts), nil
}

// Generate builds size synthetic accounts relative to now. Deterministic
// for a given seed.
func Generate(seed int64, size int, now time.Time) []accountdomain.Account {
	rng := rand.New(rand.NewSource(seed))
	accounts := make([]accountdomain.Account, 0, size)
	usedNames := make(map[string]int)

	for i := 0; i < size; i++ {
		tier := pickTier(rng)
		arr, employees := sizeForTier(rng, tier)

		// Renewals spread from slightly past due out to a year ahead.
		renewalDays := rng.Intn(396) - 30
		// Health correlates with contact recency, plus noise.
		touchDays := rng.Intn(121)
		health := 100 - int(float64(touchDays)*0.8) + rng.Intn(21) - 10
		health = clamp(health, 0, 100)

		accounts = append(accounts, accountdomain.Account{
			Name:        companyName(rng, usedNames),
			Industry:    industries[rng.Intn(len(industries))],
			Tier:        tier,
			ARR:         arr,
			Employees:   employees,
			RenewalDate: now.AddDate(0, 0, renewalDays),
			LastTouchAt: now.AddDate(0, 0, -touchDays),
			HealthScore: health,
			CSMOwner:    csmOwners[rng.Intn(len(csmOwners))],
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return accounts
}

// pickTier weights segments so strategic accounts are large but rare.
func pickTier(rng *rand.Rand) accountdomain.Tier {
	roll := rng.Float64()
	switch {
	case roll < 0.15:
		return accountdomain.TierStrategic
	case roll < 0.50:
		return accountdomain.TierGrowth
	default:
		return accountdomain.TierSMB
	}
}

func sizeForTier(rng *rand.Rand, tier accountdomain.Tier) (decimal.Decimal, int) {
	switch tier {
	case accountdomain.TierStrategic:
		return randomARR(rng, 150000, 1200000), 1000 + rng.Intn(49000)
	case accountdomain.TierGrowth:
		return randomARR(rng, 50000, 149000), 200 + rng.Intn(800)
	default:
		return randomARR(rng, 10000, 49000), 10 + rng.Intn(190)
	}
}

func randomARR(rng *rand.Rand, low, high float64) decimal.Decimal {
	value := low + rng.Float64()*(high-low)
	return decimal.NewFromFloat(value).Round(2)
}

func companyName(rng *rand.Rand, used map[string]int) string {
	base := companyPrefixes[rng.Intn(len(companyPrefixes))] + " " + companySuffixes[rng.Intn(len(companySuffixes))]
	used[base]++
	if used[base] > 1 {
		return fmt.Sprintf("%s %d", base, used[base])
	}
	return base
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
