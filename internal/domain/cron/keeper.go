package cron

import (
	"context"
	"time"

	"github.com/questx-lab/lotterypool/internal/domain"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// KeeperCronJob settles the ended rounds of every pool, or renews them when
// nobody entered.
type KeeperCronJob struct {
	registry *round.Registry
	lottery  domain.LotteryDomain
	interval time.Duration
}

func NewKeeperCronJob(
	registry *round.Registry,
	lottery domain.LotteryDomain,
	interval time.Duration,
) *KeeperCronJob {
	return &KeeperCronJob{registry: registry, lottery: lottery, interval: interval}
}

func (job *KeeperCronJob) Do(ctx context.Context) {
	pools, err := job.registry.Pools(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pools: %v", err)
		return
	}

	tick, err := job.registry.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read clock: %v", err)
		return
	}

	for i := range pools {
		pool := &pools[i]
		current, err := job.registry.CurrentRound(ctx, pool)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get current round of pool %s: %v", pool.Handle, err)
			continue
		}

		if !current.IsActive || tick.Time.Before(current.EndTime) {
			continue
		}

		if current.PlayerCount == 0 {
			_, err := job.lottery.RenewEmptyRound(ctx, &model.RenewEmptyRoundRequest{PoolHandle: pool.Handle})
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot renew round %d of pool %s: %v", current.ID, pool.Handle, err)
			}
			continue
		}

		resp, err := job.lottery.SettleRound(ctx, &model.SettleRoundRequest{PoolHandle: pool.Handle})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot settle round %d of pool %s: %v", current.ID, pool.Handle, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Settled round %d of pool %s: %s", resp.RoundID, pool.Handle, resp.Outcome)
	}
}

func (job *KeeperCronJob) RunNow() bool {
	return true
}

func (job *KeeperCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
