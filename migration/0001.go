package migration

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// migrate0001 indexes events by round for getEvents filtered by round.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if migrator.HasIndex(&entity.PoolEvent{}, "idx_pool_events_pool_round") {
		return nil
	}

	return migrator.CreateIndex(&entity.PoolEvent{}, "idx_pool_events_pool_round")
}
