package settlement

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/questx-lab/lotterypool/internal/common"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/domain/clock"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/yield"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

// MinWinnerPlayers is the least number of players for which a winner is
// drawn. Smaller rounds roll their yield over.
const MinWinnerPlayers = 3

type Kind string

const (
	Won      Kind = "won"
	Rollover Kind = "rollover"
)

type Refund struct {
	Player string
	Amount int64
}

type Outcome struct {
	Kind    Kind
	RoundID int64

	// Won.
	Winner string
	Prize  int64

	// Rollover.
	RolledAmount int64
	Refunds      []Refund

	NextRoundID int64
}

type Engine struct {
	registry        *round.Registry
	roundRepo       repository.RoundRepository
	playerEntryRepo repository.PlayerEntryRepository
	tokens          asset.Provider
	yields          *yield.Factory
	notifier        *notify.Notifier
}

func NewEngine(
	registry *round.Registry,
	roundRepo repository.RoundRepository,
	playerEntryRepo repository.PlayerEntryRepository,
	tokens asset.Provider,
	yields *yield.Factory,
	notifier *notify.Notifier,
) *Engine {
	return &Engine{
		registry:        registry,
		roundRepo:       roundRepo,
		playerEntryRepo: playerEntryRepo,
		tokens:          tokens,
		yields:          yields,
		notifier:        notifier,
	}
}

// SelectIndex picks the winner position out of n players from a ledger tick.
// Whoever controls the tick controls the result.
func SelectIndex(tick clock.Tick, n int) int {
	return int((uint64(tick.Time.Unix()) ^ tick.Sequence) % uint64(n))
}

// Settle closes the current round of a pool, pays it out and opens the next
// one.
func (e *Engine) Settle(ctx context.Context, handle string) (*Outcome, error) {
	pool, err := e.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	current, err := e.registry.CurrentRound(ctx, pool)
	if err != nil {
		return nil, err
	}

	tick, err := e.registry.Now(ctx)
	if err != nil {
		return nil, err
	}

	if tick.Time.Before(current.EndTime) {
		return nil, errorx.New(errorx.RoundNotEnded, "Round %d has not ended", current.ID)
	}

	if !current.IsActive {
		return nil, errorx.New(errorx.RoundInactive, "Round %d is not active", current.ID)
	}

	entries, err := e.playerEntryRepo.GetList(ctx, pool.ID, current.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get players: %v", err)
		return nil, errorx.Unknown
	}

	if len(entries) == 0 {
		return nil, errorx.New(errorx.NoPlayers, "Round %d has no players", current.ID)
	}

	if err := e.roundRepo.Close(ctx, pool.ID, current.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoundInactive, "Round %d is not active", current.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot close round: %v", err)
		return nil, errorx.Unknown
	}
	current.IsActive = false

	source, err := e.yields.Source(pool)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get yield source: %v", err)
		return nil, errorx.Unknown
	}

	realization, err := source.Realize(ctx, pool, current)
	if err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot realize yield")
	}
	current.TotalYield = realization.Yield

	token, err := e.tokens.Token(pool.Asset)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get token %s: %v", pool.Asset, err)
		return nil, errorx.Unknown
	}

	if len(entries) < MinWinnerPlayers {
		return e.rollover(ctx, pool, current, entries, realization, token)
	}

	return e.award(ctx, pool, current, entries, realization, token, tick)
}

func (e *Engine) rollover(
	ctx context.Context,
	pool *entity.Pool,
	current *entity.Round,
	entries []entity.PlayerEntry,
	realization yield.Realization,
	token asset.Token,
) (*Outcome, error) {
	outcome := &Outcome{
		Kind:         Rollover,
		RoundID:      current.ID,
		RolledAmount: realization.Yield,
	}

	for _, entry := range entries {
		amount, err := realization.RefundOf(entry.Deposit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot compute refund of %s: %v", entry.Player, err)
			return nil, errorx.Unknown
		}

		if err := token.Transfer(ctx, pool.Account, entry.Player, amount); err != nil {
			return nil, common.KeepOrUnknown(ctx, err, "Cannot transfer refund")
		}

		outcome.Refunds = append(outcome.Refunds, Refund{Player: entry.Player, Amount: amount})
	}

	current.RolledOver = true
	if err := e.roundRepo.Settle(ctx, current); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot settle round: %v", err)
		return nil, errorx.Unknown
	}

	next, err := e.registry.AdvanceRound(ctx, pool, realization.Yield)
	if err != nil {
		return nil, err
	}
	outcome.NextRoundID = next.ID

	err = e.notifier.Emit(ctx, pool, entity.PoolEventJackpot,
		strconv.FormatInt(next.ID, 10), next.ID, realization.Yield)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot emit jackpot event: %v", err)
		return nil, errorx.Unknown
	}

	return outcome, nil
}

func (e *Engine) award(
	ctx context.Context,
	pool *entity.Pool,
	current *entity.Round,
	entries []entity.PlayerEntry,
	realization yield.Realization,
	token asset.Token,
	tick clock.Tick,
) (*Outcome, error) {
	winner := entries[SelectIndex(tick, len(entries))]
	prize := winner.Deposit + realization.Yield

	current.Winner = sql.NullString{String: winner.Player, Valid: true}
	if err := token.Transfer(ctx, pool.Account, winner.Player, prize); err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot transfer prize")
	}

	if err := e.roundRepo.Settle(ctx, current); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot settle round: %v", err)
		return nil, errorx.Unknown
	}

	next, err := e.registry.AdvanceRound(ctx, pool, 0)
	if err != nil {
		return nil, err
	}

	err = e.notifier.Emit(ctx, pool, entity.PoolEventWinner, winner.Player, current.ID, prize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot emit winner event: %v", err)
		return nil, errorx.Unknown
	}

	return &Outcome{
		Kind:        Won,
		RoundID:     current.ID,
		Winner:      winner.Player,
		Prize:       prize,
		NextRoundID: next.ID,
	}, nil
}
