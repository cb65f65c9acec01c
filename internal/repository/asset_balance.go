package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetBalanceRepository interface {
	Get(ctx context.Context, asset, account string) (int64, error)
	Increase(ctx context.Context, asset, account string, amount int64) error
	Decrease(ctx context.Context, asset, account string, amount int64) error
}

type assetBalanceRepository struct{}

func NewAssetBalanceRepository() *assetBalanceRepository {
	return &assetBalanceRepository{}
}

// Get returns 0 for an account which has never held the asset.
func (r *assetBalanceRepository) Get(ctx context.Context, asset, account string) (int64, error) {
	var result entity.AssetBalance
	err := xcontext.DB(ctx).Take(&result, "asset=? AND account=?", asset, account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return result.Balance, nil
}

func (r *assetBalanceRepository) Increase(ctx context.Context, asset, account string, amount int64) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "asset"},
			{Name: "account"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"balance": gorm.Expr("balance+?", amount),
		}),
	}).Create(&entity.AssetBalance{Asset: asset, Account: account, Balance: amount}).Error
}

// Decrease returns gorm.ErrRecordNotFound if the balance is less than amount.
func (r *assetBalanceRepository) Decrease(ctx context.Context, asset, account string, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.AssetBalance{}).
		Where("asset=? AND account=? AND balance>=?", asset, account, amount).
		Update("balance", gorm.Expr("balance-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
