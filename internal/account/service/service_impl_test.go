package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	"github.com/revops-labs/pulse/internal/account/repository"
	"github.com/revops-labs/pulse/internal/migration"
)

func setupService(t *testing.T) accountdomain.Service {
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
	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func createRequest(name string, tier accountdomain.Tier) accountdomain.CreateAccountRequest {
	now := time.Now().UTC()
	return accountdomain.CreateAccountRequest{
		Name:        name,
		Industry:    "SaaS",
		Tier:        tier,
		ARR:         decimal.NewFromInt(120000),
		Employees:   500,
		RenewalDate: now.AddDate(0, 6, 0),
		LastTouchAt: now.AddDate(0, 0, -10),
		HealthScore: 80,
		CSMOwner:    "Jordan",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest("Acme Corp", accountdomain.TierGrowth))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected generated account id")
	}

	got, err := svc.GetByID(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Fatalf("expected Acme Corp, got %q", got.Name)
	}
	if !got.ARR.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("expected ARR 120000, got %s", got.ARR)
	}
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.GetByID(context.Background(), "not-an-id"); !errors.Is(err, accountdomain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.GetByID(context.Background(), "1234567890123456789"); !errors.Is(err, accountdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	req := createRequest("", accountdomain.TierGrowth)
	if _, err := svc.Create(ctx, req); !errors.Is(err, accountdomain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	req = createRequest("Acme", "platinum")
	if _, err := svc.Create(ctx, req); !errors.Is(err, accountdomain.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}

	req = createRequest("Acme", accountdomain.TierSMB)
	req.ARR = decimal.NewFromInt(-5)
	if _, err := svc.Create(ctx, req); !errors.Is(err, accountdomain.ErrInvalidARR) {
		t.Fatalf("expected ErrInvalidARR, got %v", err)
	}

	req = createRequest("Acme", accountdomain.TierSMB)
	req.HealthScore = 120
	if _, err := svc.Create(ctx, req); !errors.Is(err, accountdomain.ErrInvalidHealth) {
		t.Fatalf("expected ErrInvalidHealth, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for _, spec := range []struct {
		name string
		tier accountdomain.Tier
	}{
		{"Acme Corp", accountdomain.TierStrategic},
		{"Acme Labs", accountdomain.TierGrowth},
		{"Globex", accountdomain.TierGrowth},
	} {
		if _, err := svc.Create(ctx, createRequest(spec.name, spec.tier)); err != nil {
			t.Fatalf("create %s: %v", spec.name, err)
		}
	}

	resp, err := svc.List(ctx, accountdomain.ListAccountsRequest{Tier: accountdomain.TierGrowth})
	if err != nil {
		t.Fatalf("list by tier: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 growth accounts, got %d", len(resp.Accounts))
	}
	if resp.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Total)
	}

	resp, err = svc.List(ctx, accountdomain.ListAccountsRequest{Search: "acme"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts matching search, got %d", len(resp.Accounts))
	}

	if _, err := svc.List(ctx, accountdomain.ListAccountsRequest{Tier: "platinum"}); !errors.Is(err, accountdomain.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestRenewalAndTouchDerivations(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	account := accountdomain.Account{
		RenewalDate: now.AddDate(0, 0, 45),
		LastTouchAt: now.AddDate(0, 0, -120),
	}
	if got := account.RenewalDaysRemaining(now); got != 45 {
		t.Fatalf("expected 45 renewal days, got %d", got)
	}
	if got := account.DaysSinceLastTouch(now); got != 120 {
		t.Fatalf("expected 120 days since touch, got %d", got)
	}

	overdue := accountdomain.Account{RenewalDate: now.AddDate(0, 0, -10), LastTouchAt: now}
	if got := overdue.RenewalDaysRemaining(now); got != -10 {
		t.Fatalf("expected -10 renewal days for overdue contract, got %d", got)
	}
}
