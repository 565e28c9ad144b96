package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accountrepo "github.com/revops-labs/pulse/internal/account/repository"
	accountservice "github.com/revops-labs/pulse/internal/account/service"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
	activityservice "github.com/revops-labs/pulse/internal/activity/service"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	"github.com/revops-labs/pulse/internal/clock"
	interventiondomain "github.com/revops-labs/pulse/internal/intervention/domain"
	"github.com/revops-labs/pulse/internal/migration"
	"github.com/revops-labs/pulse/internal/risk"
)

var testNow = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc      interventiondomain.Service
	accounts accountdomain.Service
	db       *gorm.DB
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	accounts := accountservice.NewService(accountservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  accountrepo.Provide(),
	})
	activity := activityservice.NewService(activityservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		Clock:      clock.Fixed{Instant: testNow},
		Classifier: risk.NewClassifier(risk.DefaultThresholds()),
		Accounts:   accounts,
		Activity:   activity,
	})
	return fixture{svc: svc, accounts: accounts, db: db}
}

func seedAccount(t *testing.T, accounts accountdomain.Service, name string, arr int64, health, renewalDays, touchDays int) {
	t.Helper()
	_, err := accounts.Create(context.Background(), accountdomain.CreateAccountRequest{
		Name:        name,
		Industry:    "SaaS",
		Tier:        accountdomain.TierGrowth,
		ARR:         decimal.NewFromInt(arr),
		Employees:   100,
		RenewalDate: testNow.AddDate(0, 0, renewalDays),
		LastTouchAt: testNow.AddDate(0, 0, -touchDays),
		HealthScore: health,
		CSMOwner:    "Jordan",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
}

func TestBuildQueueFiltersAndSortsByARR(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	seedAccount(t, f.accounts, "Initech", 300000, 30, 15, 5)   // critical, large ARR
	seedAccount(t, f.accounts, "Globex", 120000, 45, 30, 20)   // critical
	seedAccount(t, f.accounts, "Umbrella", 95000, 65, 200, 10) // at risk
	seedAccount(t, f.accounts, "Stark", 80000, 85, 250, 120)   // healthy but drifted
	seedAccount(t, f.accounts, "Hooli", 500000, 90, 180, 10)   // healthy, excluded

	resp, err := f.svc.BuildQueue(ctx)
	if err != nil {
		t.Fatalf("build queue: %v", err)
	}
	if !resp.GeneratedAt.Equal(testNow) {
		t.Fatalf("expected generated_at %s, got %s", testNow, resp.GeneratedAt)
	}
	if len(resp.Entries) != 4 {
		t.Fatalf("expected 4 queue entries, got %d", len(resp.Entries))
	}

	wantOrder := []string{"Initech", "Globex", "Umbrella", "Stark"}
	for i, want := range wantOrder {
		if resp.Entries[i].Name != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, resp.Entries[i].Name)
		}
	}
	for _, e := range resp.Entries {
		if e.Name == "Hooli" {
			t.Fatal("healthy recently-touched account must not enter the queue")
		}
	}
}

func TestBuildQueueRecommendations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	seedAccount(t, f.accounts, "Initech", 300000, 30, 15, 5)
	seedAccount(t, f.accounts, "Globex", 120000, 45, 30, 20)
	seedAccount(t, f.accounts, "Umbrella", 95000, 65, 200, 10)
	seedAccount(t, f.accounts, "Stark", 80000, 85, 250, 120)

	resp, err := f.svc.BuildQueue(ctx)
	if err != nil {
		t.Fatalf("build queue: %v", err)
	}

	byName := make(map[string]interventiondomain.QueueEntry, len(resp.Entries))
	for _, e := range resp.Entries {
		byName[e.Name] = e
	}

	cases := []struct {
		name   string
		status string
		label  string
		action string
	}{
		{"Initech", "critical", "Critical", "Executive Sponsor Escalation"},
		{"Globex", "critical", "Critical", "Risk Mitigation Plan"},
		{"Umbrella", "at_risk", "At Risk", "Strategy Session"},
		{"Stark", "healthy", "Healthy", "Value Realization Report"},
	}
	for _, tc := range cases {
		e, ok := byName[tc.name]
		if !ok {
			t.Fatalf("expected %s in queue", tc.name)
		}
		if e.RiskStatus != tc.status {
			t.Errorf("%s: expected status %s, got %s", tc.name, tc.status, e.RiskStatus)
		}
		if e.RiskLabel != tc.label {
			t.Errorf("%s: expected label %s, got %s", tc.name, tc.label, e.RiskLabel)
		}
		if e.RecommendedAction != tc.action {
			t.Errorf("%s: expected action %q, got %q", tc.name, tc.action, e.RecommendedAction)
		}
		if e.Rationale == "" {
			t.Errorf("%s: expected a rationale", tc.name)
		}
	}
}

func TestBuildQueueRecordsActivity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	seedAccount(t, f.accounts, "Globex", 120000, 45, 30, 20)
	if _, err := f.svc.BuildQueue(ctx); err != nil {
		t.Fatalf("build queue: %v", err)
	}

	var entries []activitydomain.ActivityLog
	if err := f.db.Where("action = ?", activitydomain.ActionInterventionRun).Find(&entries).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 intervention.run entry, got %d", len(entries))
	}
	if entries[0].Actor != activitydomain.ActorSystem {
		t.Fatalf("expected system actor, got %q", entries[0].Actor)
	}
}

func TestBuildQueueEmptyPortfolio(t *testing.T) {
	f := setup(t)
	resp, err := f.svc.BuildQueue(context.Background())
	if err != nil {
		t.Fatalf("build queue: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(resp.Entries))
	}
}
