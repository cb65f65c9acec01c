package cron

import (
	"testing"
	"time"

	"github.com/questx-lab/lotterypool/internal/domain"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/domain/auth"
	"github.com/questx-lab/lotterypool/internal/domain/clock"
	"github.com/questx-lab/lotterypool/internal/domain/entry"
	"github.com/questx-lab/lotterypool/internal/domain/lock"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/settlement"
	"github.com/questx-lab/lotterypool/internal/domain/stats"
	"github.com/questx-lab/lotterypool/internal/domain/yield"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestKeeperCronJob(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	c := clock.NewFixedClock(time.Unix(1_700_000_000, 0), 1)

	poolRepo := repository.NewPoolRepository()
	roundRepo := repository.NewRoundRepository()
	playerEntryRepo := repository.NewPlayerEntryRepository()
	eventRepo := repository.NewPoolEventRepository()
	tokens := asset.NewLedgerProvider(repository.NewAssetBalanceRepository())
	yields := yield.NewFactory(tokens, nil)
	notifier := notify.NewNotifier(eventRepo, nil)
	registry := round.NewRegistry(poolRepo, roundRepo, c, auth.NewRequestVerifier())

	lottery := domain.NewLotteryDomain(
		registry,
		entry.NewLedger(registry, poolRepo, roundRepo, playerEntryRepo, tokens, yields, notifier),
		settlement.NewEngine(registry, roundRepo, playerEntryRepo, tokens, yields, notifier),
		stats.NewAggregator(registry),
		eventRepo,
		lock.NewLocalLocker(),
		notifier,
	)

	for _, handle := range []string{"empty", "played"} {
		_, err := lottery.InitializePool(ctx, &model.InitializePoolRequest{
			PoolHandle:    handle,
			Admin:         "admin",
			Asset:         "USDC",
			Account:       "pool-" + handle,
			YieldSource:   "none",
			RoundDuration: 3600,
			MinDeposit:    10,
		})
		require.NoError(t, err)
	}

	require.NoError(t, testutil.Fund(ctx, "USDC", 100, "alice"))
	_, err := lottery.Enter(testutil.WithUserID(ctx, "alice"), &model.EnterRequest{
		PoolHandle: "played",
		Player:     "alice",
		Amount:     100,
	})
	require.NoError(t, err)

	job := NewKeeperCronJob(registry, lottery, time.Minute)

	// Nothing has ended yet.
	job.Do(ctx)
	played, err := lottery.GetCurrentRound(ctx, &model.GetCurrentRoundRequest{PoolHandle: "played"})
	require.NoError(t, err)
	require.Equal(t, int64(1), played.Round.ID)

	c.Advance(time.Hour)
	job.Do(ctx)

	played, err = lottery.GetCurrentRound(ctx, &model.GetCurrentRoundRequest{PoolHandle: "played"})
	require.NoError(t, err)
	require.Equal(t, int64(2), played.Round.ID)

	empty, err := lottery.GetCurrentRound(ctx, &model.GetCurrentRoundRequest{PoolHandle: "empty"})
	require.NoError(t, err)
	require.Equal(t, int64(1), empty.Round.ID)
	require.Equal(t, time.Unix(1_700_007_200, 0).UTC().Format(model.DefaultTimeLayout), empty.Round.EndTime)

	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Minute), job.Next(), time.Second)
}
