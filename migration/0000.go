package migration

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// migrate0000 creates the database with the latest version.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Pool{},
		&entity.Round{},
		&entity.PlayerEntry{},
		&entity.PoolEvent{},
		&entity.AssetBalance{},
		&entity.MarketPosition{},
	)
}
