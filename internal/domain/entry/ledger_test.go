package entry

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/domain/auth"
	"github.com/questx-lab/lotterypool/internal/domain/clock"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/yield"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

var start = time.Unix(1_700_000_000, 0)

type fixture struct {
	ctx      context.Context
	clock    *clock.FixedClock
	registry *round.Registry
	ledger   *Ledger
	tokens   asset.Provider
	pool     *entity.Pool
}

func newFixture(t *testing.T) *fixture {
	ctx := testutil.MockContextWithUserID("admin")
	c := clock.NewFixedClock(start, 1)

	poolRepo := repository.NewPoolRepository()
	roundRepo := repository.NewRoundRepository()
	tokens := asset.NewLedgerProvider(repository.NewAssetBalanceRepository())
	registry := round.NewRegistry(poolRepo, roundRepo, c, auth.NewRequestVerifier())
	ledger := NewLedger(
		registry,
		poolRepo,
		roundRepo,
		repository.NewPlayerEntryRepository(),
		tokens,
		yield.NewFactory(tokens, nil),
		notify.NewNotifier(repository.NewPoolEventRepository(), nil),
	)

	pool, _, err := registry.Initialize(ctx, round.Config{
		Handle:        "small",
		Admin:         "admin",
		Asset:         "USDC",
		Account:       "pool-small",
		YieldSource:   entity.YieldSourceNone,
		RoundDuration: 3600,
		MinDeposit:    10,
	})
	require.NoError(t, err)
	require.NoError(t, testutil.Fund(ctx, "USDC", 1000, "alice", "bob"))

	return &fixture{ctx: ctx, clock: c, registry: registry, ledger: ledger, tokens: tokens, pool: pool}
}

func (f *fixture) balance(t *testing.T, account string) int64 {
	token, err := f.tokens.Token("USDC")
	require.NoError(t, err)
	balance, err := token.Balance(f.ctx, account)
	require.NoError(t, err)
	return balance
}

func Test_Enter(t *testing.T) {
	f := newFixture(t)

	e, err := f.ledger.Enter(testutil.WithUserID(f.ctx, "alice"), "small", "alice", 100)
	require.NoError(t, err)
	require.Equal(t, int64(0), e.Position)

	e, err = f.ledger.Enter(testutil.WithUserID(f.ctx, "bob"), "small", "bob", 250)
	require.NoError(t, err)
	require.Equal(t, int64(1), e.Position)

	require.Equal(t, int64(900), f.balance(t, "alice"))
	require.Equal(t, int64(350), f.balance(t, "pool-small"))

	current, err := f.registry.CurrentRound(f.ctx, f.pool)
	require.NoError(t, err)
	require.Equal(t, int64(350), current.TotalDeposits)
	require.Equal(t, int64(2), current.PlayerCount)

	pool, err := f.registry.Pool(f.ctx, "small")
	require.NoError(t, err)
	require.Equal(t, int64(350), pool.TotalVolume)
	require.Equal(t, int64(2), pool.TotalPlayers)

	players, err := f.ledger.GetPlayers(f.ctx, "small", 1)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "alice", players[0].Player)
	require.Equal(t, "bob", players[1].Player)

	events, err := repository.NewPoolEventRepository().GetList(f.ctx, repository.PoolEventFilter{
		PoolID: pool.ID,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, entity.PoolEventEntered, events[0].Topic)
}

func Test_Enter_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		caller string
		handle string
		amount int64
		setup  func(*testing.T, *fixture)
		code   errorx.Code
	}{
		{
			name:   "other caller",
			caller: "bob",
			handle: "small",
			amount: 100,
			code:   errorx.Unauthorized,
		},
		{
			name:   "unknown pool",
			caller: "alice",
			handle: "whale",
			amount: 100,
			code:   errorx.NotInitialized,
		},
		{
			name:   "below minimum",
			caller: "alice",
			handle: "small",
			amount: 9,
			code:   errorx.BelowMinimum,
		},
		{
			name:   "negative",
			caller: "alice",
			handle: "small",
			amount: -100,
			code:   errorx.BelowMinimum,
		},
		{
			name:   "round ended",
			caller: "alice",
			handle: "small",
			amount: 100,
			setup:  func(_ *testing.T, f *fixture) { f.clock.Advance(time.Hour) },
			code:   errorx.RoundEnded,
		},
		{
			name:   "round inactive",
			caller: "alice",
			handle: "small",
			amount: 100,
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, repository.NewRoundRepository().Close(f.ctx, f.pool.ID, 1))
			},
			code: errorx.RoundInactive,
		},
		{
			name:   "duplicate",
			caller: "alice",
			handle: "small",
			amount: 100,
			setup: func(t *testing.T, f *fixture) {
				_, err := f.ledger.Enter(testutil.WithUserID(f.ctx, "alice"), "small", "alice", 100)
				require.NoError(t, err)
			},
			code: errorx.DuplicateEntry,
		},
		{
			name:   "insufficient balance",
			caller: "alice",
			handle: "small",
			amount: 1001,
			code:   errorx.InsufficientBalance,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.setup != nil {
				tc.setup(t, f)
			}

			_, err := f.ledger.Enter(testutil.WithUserID(f.ctx, tc.caller), tc.handle, "alice", tc.amount)
			require.Equal(t, tc.code, errorx.CodeOf(err))
		})
	}
}

func Test_Enter_DuplicateLeavesTotals(t *testing.T) {
	const (
		lower    = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
		upper    = "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"
		checksum = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	)

	testCases := []struct {
		name   string
		first  string
		second string
	}{
		{name: "same spelling", first: lower, second: lower},
		{name: "other case", first: lower, second: upper},
		{name: "checksum after lower case", first: lower, second: checksum},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, testutil.Fund(f.ctx, "USDC", 1000, lower))
			ctx := testutil.WithUserID(f.ctx, lower)

			e, err := f.ledger.Enter(ctx, "small", tc.first, 100)
			require.NoError(t, err)
			require.Equal(t, checksum, e.Player)

			_, err = f.ledger.Enter(ctx, "small", tc.second, 200)
			require.Equal(t, errorx.DuplicateEntry, errorx.CodeOf(err))

			current, err := f.registry.CurrentRound(f.ctx, f.pool)
			require.NoError(t, err)
			require.Equal(t, int64(100), current.TotalDeposits)
			require.Equal(t, int64(1), current.PlayerCount)

			pool, err := f.registry.Pool(f.ctx, "small")
			require.NoError(t, err)
			require.Equal(t, int64(100), pool.TotalVolume)
			require.Equal(t, int64(1), pool.TotalPlayers)

			players, err := f.ledger.GetPlayers(f.ctx, "small", 1)
			require.NoError(t, err)
			require.Len(t, players, 1)
			require.Equal(t, int64(100), players[0].Deposit)

			require.Equal(t, int64(900), f.balance(t, checksum))
			require.Equal(t, int64(100), f.balance(t, "pool-small"))
		})
	}
}

func Test_Enter_RollbackOnFailure(t *testing.T) {
	f := newFixture(t)
	pool, err := testutil.SamplePool(f.ctx, &entity.Pool{
		Handle:       "broken",
		YieldSource:  entity.YieldSourceExternalPool,
		Market:       "market",
		MinDeposit:   10,
		CurrentRound: 1,
	})
	require.NoError(t, err)
	require.NoError(t, repository.NewRoundRepository().Create(f.ctx, &entity.Round{
		PoolID:    pool.ID,
		ID:        1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		IsActive:  true,
	}))

	// The fixture has no market, so the deposit cannot be deployed after it
	// was transferred.
	ctx := xcontext.WithDBTransaction(testutil.WithUserID(f.ctx, "alice"))
	_, err = f.ledger.Enter(ctx, "broken", "alice", 100)
	xcontext.RollbackDBTransaction(ctx)
	require.Equal(t, errorx.Unknown, err)
	require.Equal(t, int64(1000), f.balance(t, "alice"))
	require.Zero(t, f.balance(t, pool.Account))
}

func Test_GetPlayerEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.GetPlayerEntry(f.ctx, "small", 1, "alice")
	require.Equal(t, errorx.NotFound, errorx.CodeOf(err))

	_, err = f.ledger.Enter(testutil.WithUserID(f.ctx, "alice"), "small", "alice", 100)
	require.NoError(t, err)

	e, err := f.ledger.GetPlayerEntry(f.ctx, "small", 1, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(100), e.Deposit)
	require.False(t, e.HasClaimed)

	players, err := f.ledger.GetPlayers(f.ctx, "small", 2)
	require.NoError(t, err)
	require.Empty(t, players)
}

func Test_ClaimRefund_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Enter(testutil.WithUserID(f.ctx, "alice"), "small", "alice", 100)
	require.NoError(t, err)

	ctx := testutil.WithUserID(f.ctx, "alice")

	_, err = f.ledger.ClaimRefund(testutil.WithUserID(f.ctx, "bob"), "small", "alice", 1)
	require.Equal(t, errorx.Unauthorized, errorx.CodeOf(err))

	_, err = f.ledger.ClaimRefund(ctx, "whale", "alice", 1)
	require.Equal(t, errorx.NotInitialized, errorx.CodeOf(err))

	_, err = f.ledger.ClaimRefund(ctx, "small", "alice", 7)
	require.Equal(t, errorx.RoundNotFound, errorx.CodeOf(err))

	_, err = f.ledger.ClaimRefund(ctx, "small", "alice", 1)
	require.Equal(t, errorx.RoundNotEnded, errorx.CodeOf(err))

	roundRepo := repository.NewRoundRepository()
	require.NoError(t, roundRepo.Close(f.ctx, f.pool.ID, 1))
	_, err = f.ledger.ClaimRefund(ctx, "small", "alice", 1)
	require.Equal(t, errorx.WinnerNotSelected, errorx.CodeOf(err))
}
