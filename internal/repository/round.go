package repository

import (
	"context"
	"time"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

type RoundRepository interface {
	Create(ctx context.Context, round *entity.Round) error
	Get(ctx context.Context, poolID string, roundID int64) (*entity.Round, error)
	AddDeposit(ctx context.Context, poolID string, roundID int64, amount int64) error
	Close(ctx context.Context, poolID string, roundID int64) error
	Settle(ctx context.Context, round *entity.Round) error
	RenewEmpty(ctx context.Context, poolID string, roundID int64, start, end time.Time) error
}

type roundRepository struct{}

func NewRoundRepository() *roundRepository {
	return &roundRepository{}
}

func (r *roundRepository) Create(ctx context.Context, round *entity.Round) error {
	return xcontext.DB(ctx).Create(round).Error
}

func (r *roundRepository) Get(ctx context.Context, poolID string, roundID int64) (*entity.Round, error) {
	var result entity.Round
	err := xcontext.DB(ctx).Take(&result, "pool_id=? AND id=?", poolID, roundID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AddDeposit adds one player with the amount to an active round. It returns
// gorm.ErrRecordNotFound if the round is not active anymore.
func (r *roundRepository) AddDeposit(ctx context.Context, poolID string, roundID int64, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("pool_id=? AND id=? AND is_active=?", poolID, roundID, true).
		Updates(map[string]any{
			"total_deposits": gorm.Expr("total_deposits+?", amount),
			"player_count":   gorm.Expr("player_count+?", 1),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Close deactivates an active round. It returns gorm.ErrRecordNotFound if the
// round was already closed.
func (r *roundRepository) Close(ctx context.Context, poolID string, roundID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("pool_id=? AND id=? AND is_active=?", poolID, roundID, true).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Settle persists the outcome of a closed round.
func (r *roundRepository) Settle(ctx context.Context, round *entity.Round) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("pool_id=? AND id=? AND is_active=?", round.PoolID, round.ID, false).
		Updates(map[string]any{
			"total_yield": round.TotalYield,
			"winner":      round.Winner,
			"rolled_over": round.RolledOver,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// RenewEmpty restarts the window of an active round without players.
func (r *roundRepository) RenewEmpty(
	ctx context.Context, poolID string, roundID int64, start, end time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Round{}).
		Where("pool_id=? AND id=? AND is_active=? AND player_count=?", poolID, roundID, true, 0).
		Updates(map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
