package domain

import (
	"context"

	"gorm.io/gorm"
)

// Service exposes the account portfolio to the dashboard and the
// classification pipeline.
type Service interface {
	Create(ctx context.Context, req CreateAccountRequest) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context, req ListAccountsRequest) (ListAccountsResponse, error)
	// All returns the full portfolio in stable name order, for batch
	// classification and aggregate reporting.
	All(ctx context.Context) ([]Account, error)
	Count(ctx context.Context) (int64, error)
}

// Repository is the persistence boundary for accounts.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Account, error)
	Find(ctx context.Context, db *gorm.DB, req ListAccountsRequest) ([]Account, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
