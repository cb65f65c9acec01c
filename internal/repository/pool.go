package repository

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

type PoolRepository interface {
	Create(ctx context.Context, pool *entity.Pool) error
	GetByHandle(ctx context.Context, handle string) (*entity.Pool, error)
	GetList(ctx context.Context) ([]entity.Pool, error)
	AdvanceCurrentRound(ctx context.Context, poolID string, from int64) error
	IncreaseCounters(ctx context.Context, poolID string, volume, players int64) error
}

type poolRepository struct{}

func NewPoolRepository() *poolRepository {
	return &poolRepository{}
}

func (r *poolRepository) Create(ctx context.Context, pool *entity.Pool) error {
	return xcontext.DB(ctx).Create(pool).Error
}

func (r *poolRepository) GetByHandle(ctx context.Context, handle string) (*entity.Pool, error) {
	var result entity.Pool
	if err := xcontext.DB(ctx).Take(&result, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *poolRepository) GetList(ctx context.Context) ([]entity.Pool, error) {
	var result []entity.Pool
	if err := xcontext.DB(ctx).Order("handle").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// AdvanceCurrentRound moves the current round pointer from `from` to from+1.
// It returns gorm.ErrRecordNotFound if the pointer has already moved.
func (r *poolRepository) AdvanceCurrentRound(ctx context.Context, poolID string, from int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Pool{}).
		Where("id=? AND current_round=?", poolID, from).
		Update("current_round", from+1)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *poolRepository) IncreaseCounters(ctx context.Context, poolID string, volume, players int64) error {
	tx := xcontext.DB(ctx).Model(&entity.Pool{}).
		Where("id=?", poolID).
		Updates(map[string]any{
			"total_volume":  gorm.Expr("total_volume+?", volume),
			"total_players": gorm.Expr("total_players+?", players),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
