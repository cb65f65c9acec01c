package repository

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

type PoolEventFilter struct {
	PoolID string
	// RoundID of 0 matches every round.
	RoundID int64
	Offset  int
	Limit   int
}

type PoolEventRepository interface {
	Create(ctx context.Context, e *entity.PoolEvent) error
	GetList(ctx context.Context, filter PoolEventFilter) ([]entity.PoolEvent, error)
}

type poolEventRepository struct{}

func NewPoolEventRepository() *poolEventRepository {
	return &poolEventRepository{}
}

func (r *poolEventRepository) Create(ctx context.Context, e *entity.PoolEvent) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *poolEventRepository) GetList(ctx context.Context, filter PoolEventFilter) ([]entity.PoolEvent, error) {
	tx := xcontext.DB(ctx).Where("pool_id=?", filter.PoolID)
	if filter.RoundID != 0 {
		tx = tx.Where("round_id=?", filter.RoundID)
	}

	var result []entity.PoolEvent
	err := tx.Order("created_at, id").Offset(filter.Offset).Limit(filter.Limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
