package round

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/lotterypool/internal/domain/auth"
	"github.com/questx-lab/lotterypool/internal/domain/clock"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	MinRoundDuration = 60
	MaxYieldRate     = 10_000
)

type Config struct {
	Handle        string
	Admin         string
	Asset         string
	Account       string
	YieldSource   entity.YieldSource
	YieldRate     int64
	Market        string
	RoundDuration int64
	MinDeposit    int64
}

// Registry owns pools and their rounds. Only settlement advances rounds.
type Registry struct {
	poolRepo  repository.PoolRepository
	roundRepo repository.RoundRepository
	clock     clock.Clock
	verifier  auth.Verifier
}

func NewRegistry(
	poolRepo repository.PoolRepository,
	roundRepo repository.RoundRepository,
	clock clock.Clock,
	verifier auth.Verifier,
) *Registry {
	return &Registry{
		poolRepo:  poolRepo,
		roundRepo: roundRepo,
		clock:     clock,
		verifier:  verifier,
	}
}

func (r *Registry) Initialize(ctx context.Context, cfg Config) (*entity.Pool, *entity.Round, error) {
	if cfg.Handle == "" {
		return nil, nil, errorx.New(errorx.InvalidConfig, "Pool handle is required")
	}

	cfg.Admin = ethutil.NormalizeAccount(cfg.Admin)
	cfg.Account = ethutil.NormalizeAccount(cfg.Account)
	cfg.Market = ethutil.NormalizeAccount(cfg.Market)

	_, err := r.poolRepo.GetByHandle(ctx, cfg.Handle)
	if err == nil {
		return nil, nil, errorx.New(errorx.AlreadyInitialized, "Pool %s is already initialized", cfg.Handle)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get pool: %v", err)
		return nil, nil, errorx.Unknown
	}

	if err := r.verifier.Verify(ctx, cfg.Admin); err != nil {
		return nil, nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, nil, err
	}

	tick, err := r.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read clock: %v", err)
		return nil, nil, errorx.Unknown
	}

	pool := &entity.Pool{
		Base:          entity.Base{ID: newID()},
		Handle:        cfg.Handle,
		Admin:         cfg.Admin,
		Asset:         cfg.Asset,
		Account:       cfg.Account,
		YieldSource:   cfg.YieldSource,
		YieldRate:     cfg.YieldRate,
		Market:        cfg.Market,
		RoundDuration: cfg.RoundDuration,
		MinDeposit:    cfg.MinDeposit,
		CurrentRound:  1,
	}

	if err := r.poolRepo.Create(ctx, pool); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create pool: %v", err)
		return nil, nil, errorx.Unknown
	}

	round := &entity.Round{
		PoolID:    pool.ID,
		ID:        1,
		StartTime: tick.Time,
		EndTime:   tick.Time.Add(pool.RoundDurationTime()),
		IsActive:  true,
	}

	if err := r.roundRepo.Create(ctx, round); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the first round: %v", err)
		return nil, nil, errorx.Unknown
	}

	return pool, round, nil
}

func validateConfig(cfg Config) error {
	if cfg.YieldRate < 0 || cfg.YieldRate > MaxYieldRate {
		return errorx.New(errorx.InvalidConfig, "Yield rate must be between 0 and %d basis points", MaxYieldRate)
	}

	if cfg.MinDeposit <= 0 {
		return errorx.New(errorx.InvalidConfig, "Minimum deposit must be positive")
	}

	if cfg.RoundDuration < MinRoundDuration {
		return errorx.New(errorx.InvalidConfig, "Round duration must be at least %d seconds", MinRoundDuration)
	}

	if cfg.Asset == "" || cfg.Account == "" {
		return errorx.New(errorx.InvalidConfig, "Asset and pool account are required")
	}

	switch cfg.YieldSource {
	case entity.YieldSourceNone, entity.YieldSourceRateTimeMock:
	case entity.YieldSourceExternalPool:
		if cfg.Market == "" {
			return errorx.New(errorx.InvalidConfig, "Market is required for the external pool yield source")
		}
	default:
		return errorx.New(errorx.InvalidConfig, "Unknown yield source %s", cfg.YieldSource)
	}

	return nil
}

// Pool returns the pool of handle, or NotInitialized.
func (r *Registry) Pool(ctx context.Context, handle string) (*entity.Pool, error) {
	pool, err := r.poolRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotInitialized, "Pool %s is not initialized", handle)
		}

		xcontext.Logger(ctx).Errorf("Cannot get pool: %v", err)
		return nil, errorx.Unknown
	}

	return pool, nil
}

func (r *Registry) Pools(ctx context.Context) ([]entity.Pool, error) {
	pools, err := r.poolRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pools: %v", err)
		return nil, errorx.Unknown
	}

	return pools, nil
}

func (r *Registry) CurrentRound(ctx context.Context, pool *entity.Pool) (*entity.Round, error) {
	round, err := r.roundRepo.Get(ctx, pool.ID, pool.CurrentRound)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotInitialized, "Pool %s has no round", pool.Handle)
		}

		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	return round, nil
}

func (r *Registry) Round(ctx context.Context, pool *entity.Pool, roundID int64) (*entity.Round, error) {
	round, err := r.roundRepo.Get(ctx, pool.ID, roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoundNotFound, "Round %d not found", roundID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	return round, nil
}

// AdvanceRound opens the round after the current one, seeded with seed, and
// moves the pool's pointer to it. The current round must already be closed.
func (r *Registry) AdvanceRound(ctx context.Context, pool *entity.Pool, seed int64) (*entity.Round, error) {
	tick, err := r.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read clock: %v", err)
		return nil, errorx.Unknown
	}

	if err := r.poolRepo.AdvanceCurrentRound(ctx, pool.ID, pool.CurrentRound); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot advance round %d of pool %s: %v", pool.CurrentRound, pool.Handle, err)
		return nil, errorx.Unknown
	}

	next := &entity.Round{
		PoolID:        pool.ID,
		ID:            pool.CurrentRound + 1,
		StartTime:     tick.Time,
		EndTime:       tick.Time.Add(pool.RoundDurationTime()),
		TotalDeposits: seed,
		Seed:          seed,
		IsActive:      true,
	}

	if err := r.roundRepo.Create(ctx, next); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create round %d: %v", next.ID, err)
		return nil, errorx.Unknown
	}

	pool.CurrentRound = next.ID
	return next, nil
}

// RenewEmptyRound restarts the window of the current round if it has ended
// without any player. The round keeps its id.
func (r *Registry) RenewEmptyRound(ctx context.Context, pool *entity.Pool) (*entity.Round, error) {
	round, err := r.CurrentRound(ctx, pool)
	if err != nil {
		return nil, err
	}

	if !round.IsActive {
		return nil, errorx.New(errorx.RoundInactive, "Round %d is not active", round.ID)
	}

	tick, err := r.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read clock: %v", err)
		return nil, errorx.Unknown
	}

	if tick.Time.Before(round.EndTime) {
		return nil, errorx.New(errorx.RoundNotEnded, "Round %d has not ended", round.ID)
	}

	if round.PlayerCount > 0 {
		return nil, errorx.New(errorx.RoundHasPlayers, "Round %d has players, settle it instead", round.ID)
	}

	start, end := tick.Time, tick.Time.Add(pool.RoundDurationTime())
	if err := r.roundRepo.RenewEmpty(ctx, pool.ID, round.ID, start, end); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoundHasPlayers, "Round %d has players, settle it instead", round.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot renew round: %v", err)
		return nil, errorx.Unknown
	}

	round.StartTime, round.EndTime = start, end
	return round, nil
}

// Now reads the ledger clock.
func (r *Registry) Now(ctx context.Context) (clock.Tick, error) {
	tick, err := r.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read clock: %v", err)
		return clock.Tick{}, errorx.Unknown
	}

	return tick, nil
}

// Verify checks that the caller is account.
func (r *Registry) Verify(ctx context.Context, account string) error {
	return r.verifier.Verify(ctx, account)
}

func newID() string {
	return uuid.NewString()
}
