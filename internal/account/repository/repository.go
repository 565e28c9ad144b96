// Package repository implements account persistence on gorm.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
)

type gormRepository struct{}

// Provide returns the gorm-backed account repository.
func Provide() accountdomain.Repository {
	return gormRepository{}
}

func (gormRepository) Insert(ctx context.Context, db *gorm.DB, account *accountdomain.Account) error {
	return db.WithContext(ctx).Create(account).Error
}

func (gormRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (gormRepository) Find(ctx context.Context, db *gorm.DB, req accountdomain.ListAccountsRequest) ([]accountdomain.Account, error) {
	query := db.WithContext(ctx).Model(&accountdomain.Account{})

	if req.Tier != "" {
		query = query.Where("tier = ?", req.Tier)
	}
	if req.Industry != "" {
		query = query.Where("industry = ?", req.Industry)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var accounts []accountdomain.Account
	if err := query.Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (gormRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&accountdomain.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
