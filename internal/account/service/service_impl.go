// Package service implements the account portfolio service.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  accountdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  accountdomain.Repository
}

func NewService(p ServiceParam) accountdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req accountdomain.CreateAccountRequest) (*accountdomain.Account, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &accountdomain.Account{
		ID:          s.genID.Generate(),
		Name:        strings.TrimSpace(req.Name),
		Industry:    strings.TrimSpace(req.Industry),
		Tier:        req.Tier,
		ARR:         req.ARR,
		Employees:   req.Employees,
		RenewalDate: req.RenewalDate.UTC(),
		LastTouchAt: req.LastTouchAt.UTC(),
		HealthScore: req.HealthScore,
		CSMOwner:    strings.TrimSpace(req.CSMOwner),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, account); err != nil {
		return nil, err
	}
	s.log.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("name", account.Name),
	)
	return account, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return nil, accountdomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, s.db, int64(parsed))
}

func (s *Service) List(ctx context.Context, req accountdomain.ListAccountsRequest) (accountdomain.ListAccountsResponse, error) {
	if req.Tier != "" && !req.Tier.Valid() {
		return accountdomain.ListAccountsResponse{}, accountdomain.ErrInvalidTier
	}

	accounts, err := s.repo.Find(ctx, s.db, req)
	if err != nil {
		return accountdomain.ListAccountsResponse{}, err
	}
	total, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return accountdomain.ListAccountsResponse{}, err
	}
	return accountdomain.ListAccountsResponse{Accounts: accounts, Total: total}, nil
}

func (s *Service) All(ctx context.Context) ([]accountdomain.Account, error) {
	return s.repo.Find(ctx, s.db, accountdomain.ListAccountsRequest{})
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.db)
}

func validateCreate(req accountdomain.CreateAccountRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return accountdomain.ErrInvalidName
	}
	if !req.Tier.Valid() {
		return accountdomain.ErrInvalidTier
	}
	if req.ARR.IsNegative() {
		return accountdomain.ErrInvalidARR
	}
	if req.HealthScore < 0 || req.HealthScore > 100 {
		return accountdomain.ErrInvalidHealth
	}
	if req.RenewalDate.IsZero() {
		return accountdomain.ErrInvalidRenewal
	}
	if req.LastTouchAt.IsZero() {
		return accountdomain.ErrInvalidLastTouch
	}
	return nil
}
