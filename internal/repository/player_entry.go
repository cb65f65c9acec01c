package repository

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayerEntryRepository interface {
	// Create inserts the entry. It returns gorm.ErrRecordNotFound if the player
	// already has an entry in the round.
	Create(ctx context.Context, e *entity.PlayerEntry) error
	Get(ctx context.Context, poolID string, roundID int64, player string) (*entity.PlayerEntry, error)
	GetList(ctx context.Context, poolID string, roundID int64) ([]entity.PlayerEntry, error)
	Count(ctx context.Context, poolID string, roundID int64) (int64, error)
	Claim(ctx context.Context, poolID string, roundID int64, player string) error
}

type playerEntryRepository struct{}

func NewPlayerEntryRepository() *playerEntryRepository {
	return &playerEntryRepository{}
}

func (r *playerEntryRepository) Create(ctx context.Context, e *entity.PlayerEntry) error {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *playerEntryRepository) Get(
	ctx context.Context, poolID string, roundID int64, player string,
) (*entity.PlayerEntry, error) {
	var result entity.PlayerEntry
	err := xcontext.DB(ctx).
		Take(&result, "pool_id=? AND round_id=? AND player=?", poolID, roundID, player).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *playerEntryRepository) GetList(
	ctx context.Context, poolID string, roundID int64,
) ([]entity.PlayerEntry, error) {
	var result []entity.PlayerEntry
	err := xcontext.DB(ctx).
		Where("pool_id=? AND round_id=?", poolID, roundID).
		Order("position").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *playerEntryRepository) Count(ctx context.Context, poolID string, roundID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.PlayerEntry{}).
		Where("pool_id=? AND round_id=?", poolID, roundID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// Claim flips has_claimed from false to true. It returns
// gorm.ErrRecordNotFound if the entry has been claimed.
func (r *playerEntryRepository) Claim(ctx context.Context, poolID string, roundID int64, player string) error {
	tx := xcontext.DB(ctx).Model(&entity.PlayerEntry{}).
		Where("pool_id=? AND round_id=? AND player=? AND has_claimed=?", poolID, roundID, player, false).
		Update("has_claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
