package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PositionColumn is either supplied or collateral.
type PositionColumn string

const (
	PositionSupplied   PositionColumn = "supplied"
	PositionCollateral PositionColumn = "collateral"
)

type MarketPositionRepository interface {
	Get(ctx context.Context, market, asset, owner string) (*entity.MarketPosition, error)
	Increase(ctx context.Context, market, asset, owner string, column PositionColumn, amount int64) error
	Decrease(ctx context.Context, market, asset, owner string, column PositionColumn, amount int64) error
}

type marketPositionRepository struct{}

func NewMarketPositionRepository() *marketPositionRepository {
	return &marketPositionRepository{}
}

// Get returns an empty position if owner has never supplied to the market.
func (r *marketPositionRepository) Get(
	ctx context.Context, market, asset, owner string,
) (*entity.MarketPosition, error) {
	var result entity.MarketPosition
	err := xcontext.DB(ctx).
		Take(&result, "market=? AND asset=? AND owner=?", market, asset, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.MarketPosition{Market: market, Asset: asset, Owner: owner}, nil
		}

		return nil, err
	}

	return &result, nil
}

func (r *marketPositionRepository) Increase(
	ctx context.Context, market, asset, owner string, column PositionColumn, amount int64,
) error {
	position := &entity.MarketPosition{Market: market, Asset: asset, Owner: owner}
	switch column {
	case PositionSupplied:
		position.Supplied = amount
	case PositionCollateral:
		position.Collateral = amount
	default:
		return errors.New("unknown position column " + string(column))
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "market"},
			{Name: "asset"},
			{Name: "owner"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			string(column): gorm.Expr(string(column)+"+?", amount),
		}),
	}).Create(position).Error
}

// Decrease returns gorm.ErrRecordNotFound if the position is less than amount.
func (r *marketPositionRepository) Decrease(
	ctx context.Context, market, asset, owner string, column PositionColumn, amount int64,
) error {
	if column != PositionSupplied && column != PositionCollateral {
		return errors.New("unknown position column " + string(column))
	}

	tx := xcontext.DB(ctx).Model(&entity.MarketPosition{}).
		Where("market=? AND asset=? AND owner=? AND "+string(column)+">=?", market, asset, owner, amount).
		Update(string(column), gorm.Expr(string(column)+"-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
