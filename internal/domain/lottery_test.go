package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

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
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/pubsub"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/stretchr/testify/require"
)

var start = time.Unix(1_700_000_000, 0)

type lotteryFixture struct {
	ctx       context.Context
	clock     *clock.FixedClock
	publisher *testutil.MockPublisher
	tokens    asset.Provider
	lottery   *lotteryDomain
}

func newLotteryFixture(t *testing.T) *lotteryFixture {
	ctx := testutil.MockContextWithUserID("admin")
	c := clock.NewFixedClock(start, 1)
	publisher := &testutil.MockPublisher{}

	poolRepo := repository.NewPoolRepository()
	roundRepo := repository.NewRoundRepository()
	playerEntryRepo := repository.NewPlayerEntryRepository()
	eventRepo := repository.NewPoolEventRepository()
	tokens := asset.NewLedgerProvider(repository.NewAssetBalanceRepository())
	yields := yield.NewFactory(tokens, yield.NewLedgerMarket(repository.NewMarketPositionRepository(), tokens))
	notifier := notify.NewNotifier(eventRepo, publisher)

	registry := round.NewRegistry(poolRepo, roundRepo, c, auth.NewRequestVerifier())
	lottery := NewLotteryDomain(
		registry,
		entry.NewLedger(registry, poolRepo, roundRepo, playerEntryRepo, tokens, yields, notifier),
		settlement.NewEngine(registry, roundRepo, playerEntryRepo, tokens, yields, notifier),
		stats.NewAggregator(registry),
		eventRepo,
		lock.NewLocalLocker(),
		notifier,
	)

	_, err := lottery.InitializePool(ctx, &model.InitializePoolRequest{
		PoolHandle:    "small",
		Admin:         "admin",
		Asset:         "USDC",
		Account:       "pool-small",
		YieldSource:   "none",
		RoundDuration: 3600,
		MinDeposit:    10,
	})
	require.NoError(t, err)
	require.NoError(t, testutil.Fund(ctx, "USDC", 1000, "alice", "bob", "carol"))

	return &lotteryFixture{ctx: ctx, clock: c, publisher: publisher, tokens: tokens, lottery: lottery}
}

func (f *lotteryFixture) enter(player string, amount int64) error {
	_, err := f.lottery.Enter(testutil.WithUserID(f.ctx, player), &model.EnterRequest{
		PoolHandle: "small",
		Player:     player,
		Amount:     amount,
	})
	return err
}

func (f *lotteryFixture) published(t *testing.T) []model.PoolEvent {
	var result []model.PoolEvent
	for _, sent := range f.publisher.Sent() {
		require.Equal(t, model.LotteryEventTopic, sent.Topic)
		require.Equal(t, "small", string(sent.Pack.Key))

		var event model.PoolEvent
		require.NoError(t, json.Unmarshal(sent.Pack.Msg, &event))
		result = append(result, event)
	}

	return result
}

func Test_lotteryDomain_FullRound(t *testing.T) {
	f := newLotteryFixture(t)

	require.NoError(t, f.enter("alice", 100))
	require.NoError(t, f.enter("bob", 200))
	require.NoError(t, f.enter("carol", 300))

	current, err := f.lottery.GetCurrentRound(f.ctx, &model.GetCurrentRoundRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Equal(t, int64(600), current.Round.TotalDeposits)
	require.Equal(t, int64(3), current.Round.PlayerCount)

	players, err := f.lottery.GetPlayers(f.ctx, &model.GetPlayersRequest{PoolHandle: "small", RoundID: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob", "carol"}, players.Players)

	_, err = f.lottery.SettleRound(f.ctx, &model.SettleRoundRequest{PoolHandle: "small"})
	require.Equal(t, errorx.RoundNotEnded, errorx.CodeOf(err))

	f.clock.Advance(time.Hour)
	settled, err := f.lottery.SettleRound(f.ctx, &model.SettleRoundRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Equal(t, model.OutcomeWon, settled.Outcome)
	require.Equal(t, int64(2), settled.NextRoundID)

	winner := settled.Winner
	for _, p := range []string{"alice", "bob", "carol"} {
		_, err := f.lottery.ClaimRefund(testutil.WithUserID(f.ctx, p), &model.ClaimRefundRequest{
			PoolHandle: "small",
			Player:     p,
			RoundID:    1,
		})
		if p == winner {
			require.Equal(t, errorx.NotEligibleForRefund, errorx.CodeOf(err))
		} else {
			require.NoError(t, err)
		}
	}

	for _, p := range []string{"alice", "bob", "carol"} {
		balance, err := NewAssetDomain(f.tokens).GetBalance(f.ctx, &model.GetBalanceRequest{Asset: "USDC", Account: p})
		require.NoError(t, err)
		require.Equal(t, int64(1000), balance.Balance)
	}

	statsResp, err := f.lottery.GetStats(f.ctx, &model.GetStatsRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Equal(t, model.Stats{
		TotalRounds:     1,
		TotalVolume:     600,
		TotalPlayers:    3,
		TotalPrizesPaid: 6,
	}, statsResp.Stats)

	events := f.published(t)
	require.Len(t, events, 6)
	require.Equal(t, "entered", events[0].Topic)
	require.Equal(t, "winner", events[3].Topic)
	require.Equal(t, winner, events[3].Subject)
	require.Equal(t, "refund", events[5].Topic)

	stored, err := f.lottery.GetEvents(f.ctx, &model.GetEventsRequest{PoolHandle: "small", RoundID: 1})
	require.NoError(t, err)
	require.Len(t, stored.Events, 6)
}

func Test_lotteryDomain_FailureIsNotPublished(t *testing.T) {
	f := newLotteryFixture(t)

	require.NoError(t, f.enter("alice", 100))
	require.Equal(t, errorx.DuplicateEntry, errorx.CodeOf(f.enter("alice", 100)))
	require.Equal(t, errorx.InsufficientBalance, errorx.CodeOf(f.enter("bob", 5000)))

	require.Len(t, f.published(t), 1)

	bob, err := NewAssetDomain(f.tokens).GetBalance(f.ctx, &model.GetBalanceRequest{Asset: "USDC", Account: "bob"})
	require.NoError(t, err)
	require.Equal(t, int64(1000), bob.Balance)
}

func Test_lotteryDomain_PublishFailureKeepsState(t *testing.T) {
	f := newLotteryFixture(t)
	f.publisher.PublishFunc = func(context.Context, string, *pubsub.Pack) error {
		return errors.New("broker is down")
	}

	require.NoError(t, f.enter("alice", 100))

	entryResp, err := f.lottery.GetPlayerEntry(f.ctx, &model.GetPlayerEntryRequest{
		PoolHandle: "small",
		RoundID:    1,
		Player:     "alice",
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), entryResp.Entry.Deposit)
}

func Test_lotteryDomain_Rollover(t *testing.T) {
	f := newLotteryFixture(t)
	require.NoError(t, f.enter("alice", 100))
	require.NoError(t, f.enter("bob", 200))

	f.clock.Advance(time.Hour)
	settled, err := f.lottery.SettleRound(f.ctx, &model.SettleRoundRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Equal(t, model.OutcomeRollover, settled.Outcome)
	require.Empty(t, settled.Winner)

	_, err = f.lottery.ClaimRefund(testutil.WithUserID(f.ctx, "alice"), &model.ClaimRefundRequest{
		PoolHandle: "small",
		Player:     "alice",
		RoundID:    1,
	})
	require.Equal(t, errorx.RolledOver, errorx.CodeOf(err))

	r, err := f.lottery.GetRound(f.ctx, &model.GetRoundRequest{PoolHandle: "small", RoundID: 1})
	require.NoError(t, err)
	require.True(t, r.Round.RolledOver)
	require.False(t, r.Round.IsActive)
}

func Test_lotteryDomain_RenewEmptyRound(t *testing.T) {
	f := newLotteryFixture(t)

	f.clock.Advance(time.Hour)
	_, err := f.lottery.SettleRound(f.ctx, &model.SettleRoundRequest{PoolHandle: "small"})
	require.Equal(t, errorx.NoPlayers, errorx.CodeOf(err))
	require.Equal(t, errorx.RoundEnded, errorx.CodeOf(f.enter("alice", 100)))

	renewed, err := f.lottery.RenewEmptyRound(f.ctx, &model.RenewEmptyRoundRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Equal(t, int64(1), renewed.Round.ID)

	require.NoError(t, f.enter("alice", 100))
}

func Test_lotteryDomain_GetEvents_Limit(t *testing.T) {
	f := newLotteryFixture(t)

	_, err := f.lottery.GetEvents(f.ctx, &model.GetEventsRequest{PoolHandle: "small", Limit: 1000})
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))

	_, err = f.lottery.GetEvents(f.ctx, &model.GetEventsRequest{PoolHandle: "whale"})
	require.Equal(t, errorx.NotInitialized, errorx.CodeOf(err))

	resp, err := f.lottery.GetEvents(f.ctx, &model.GetEventsRequest{PoolHandle: "small"})
	require.NoError(t, err)
	require.Empty(t, resp.Events)
}
