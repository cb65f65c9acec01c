package entry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/lotterypool/internal/common"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/yield"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

// Ledger records the players' deposits of each round and pays back the
// losers who claim them.
type Ledger struct {
	registry        *round.Registry
	poolRepo        repository.PoolRepository
	roundRepo       repository.RoundRepository
	playerEntryRepo repository.PlayerEntryRepository
	tokens          asset.Provider
	yields          *yield.Factory
	notifier        *notify.Notifier
}

func NewLedger(
	registry *round.Registry,
	poolRepo repository.PoolRepository,
	roundRepo repository.RoundRepository,
	playerEntryRepo repository.PlayerEntryRepository,
	tokens asset.Provider,
	yields *yield.Factory,
	notifier *notify.Notifier,
) *Ledger {
	return &Ledger{
		registry:        registry,
		poolRepo:        poolRepo,
		roundRepo:       roundRepo,
		playerEntryRepo: playerEntryRepo,
		tokens:          tokens,
		yields:          yields,
		notifier:        notifier,
	}
}

// Enter moves amount from player to the pool and adds the player to the
// current round.
func (l *Ledger) Enter(ctx context.Context, handle, player string, amount int64) (*entity.PlayerEntry, error) {
	player = ethutil.NormalizeAccount(player)
	if err := l.registry.Verify(ctx, player); err != nil {
		return nil, err
	}

	pool, err := l.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	if amount < 0 || amount < pool.MinDeposit {
		return nil, errorx.New(errorx.BelowMinimum, "Deposit must be at least %d", pool.MinDeposit)
	}

	current, err := l.registry.CurrentRound(ctx, pool)
	if err != nil {
		return nil, err
	}

	if !current.IsActive {
		return nil, errorx.New(errorx.RoundInactive, "Round %d is not active", current.ID)
	}

	tick, err := l.registry.Now(ctx)
	if err != nil {
		return nil, err
	}

	if !tick.Time.Before(current.EndTime) {
		return nil, errorx.New(errorx.RoundEnded, "Round %d has ended", current.ID)
	}

	_, err = l.playerEntryRepo.Get(ctx, pool.ID, current.ID, player)
	if err == nil {
		return nil, errorx.New(errorx.DuplicateEntry, "Player %s already entered round %d", player, current.ID)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get player entry: %v", err)
		return nil, errorx.Unknown
	}

	token, err := l.tokens.Token(pool.Asset)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get token %s: %v", pool.Asset, err)
		return nil, errorx.Unknown
	}

	if err := token.Transfer(ctx, player, pool.Account, amount); err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot transfer deposit")
	}

	source, err := l.yields.Source(pool)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get yield source: %v", err)
		return nil, errorx.Unknown
	}

	if err := source.Deploy(ctx, pool, amount); err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot deploy deposit")
	}

	position, err := l.playerEntryRepo.Count(ctx, pool.ID, current.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count players: %v", err)
		return nil, errorx.Unknown
	}

	e := &entity.PlayerEntry{
		Base:     entity.Base{ID: uuid.NewString()},
		PoolID:   pool.ID,
		RoundID:  current.ID,
		Player:   player,
		Position: position,
		Deposit:  amount,
	}

	if err := l.playerEntryRepo.Create(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.DuplicateEntry, "Player %s already entered round %d", player, current.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot create player entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.roundRepo.AddDeposit(ctx, pool.ID, current.ID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoundInactive, "Round %d is not active", current.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot add deposit to round: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.poolRepo.IncreaseCounters(ctx, pool.ID, amount, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase pool counters: %v", err)
		return nil, errorx.Unknown
	}

	err = l.notifier.Emit(ctx, pool, entity.PoolEventEntered, player, current.ID, amount)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot emit entered event: %v", err)
		return nil, errorx.Unknown
	}

	return e, nil
}

// ClaimRefund pays back the deposit of a loser of a won round.
func (l *Ledger) ClaimRefund(ctx context.Context, handle, player string, roundID int64) (*entity.PlayerEntry, error) {
	player = ethutil.NormalizeAccount(player)
	if err := l.registry.Verify(ctx, player); err != nil {
		return nil, err
	}

	pool, err := l.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	r, err := l.registry.Round(ctx, pool, roundID)
	if err != nil {
		return nil, err
	}

	if r.IsActive {
		return nil, errorx.New(errorx.RoundNotEnded, "Round %d has not ended", r.ID)
	}

	if !r.Winner.Valid {
		if r.RolledOver {
			return nil, errorx.New(errorx.RolledOver, "Round %d was rolled over, deposits were refunded", r.ID)
		}

		return nil, errorx.New(errorx.WinnerNotSelected, "Round %d has no winner", r.ID)
	}

	if r.Winner.String == player {
		return nil, errorx.New(errorx.NotEligibleForRefund, "The winner cannot claim a refund")
	}

	e, err := l.playerEntryRepo.Get(ctx, pool.ID, r.ID, player)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotEligibleForRefund, "Player %s did not enter round %d", player, r.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get player entry: %v", err)
		return nil, errorx.Unknown
	}

	if e.HasClaimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "Refund was already claimed")
	}

	if err := l.playerEntryRepo.Claim(ctx, pool.ID, r.ID, player); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyClaimed, "Refund was already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim entry: %v", err)
		return nil, errorx.Unknown
	}
	e.HasClaimed = true

	token, err := l.tokens.Token(pool.Asset)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get token %s: %v", pool.Asset, err)
		return nil, errorx.Unknown
	}

	if err := token.Transfer(ctx, pool.Account, player, e.Deposit); err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot transfer refund")
	}

	err = l.notifier.Emit(ctx, pool, entity.PoolEventRefund, player, r.ID, e.Deposit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot emit refund event: %v", err)
		return nil, errorx.Unknown
	}

	return e, nil
}

func (l *Ledger) GetPlayerEntry(ctx context.Context, handle string, roundID int64, player string) (*entity.PlayerEntry, error) {
	player = ethutil.NormalizeAccount(player)
	pool, err := l.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	e, err := l.playerEntryRepo.Get(ctx, pool.ID, roundID, player)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Player %s has no entry in round %d", player, roundID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get player entry: %v", err)
		return nil, errorx.Unknown
	}

	return e, nil
}

// GetPlayers returns the entries of a round in insertion order.
func (l *Ledger) GetPlayers(ctx context.Context, handle string, roundID int64) ([]entity.PlayerEntry, error) {
	pool, err := l.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	entries, err := l.playerEntryRepo.GetList(ctx, pool.ID, roundID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get players: %v", err)
		return nil, errorx.Unknown
	}

	return entries, nil
}
