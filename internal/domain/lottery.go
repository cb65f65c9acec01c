package domain

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/common"
	"github.com/questx-lab/lotterypool/internal/domain/entry"
	"github.com/questx-lab/lotterypool/internal/domain/lock"
	"github.com/questx-lab/lotterypool/internal/domain/notify"
	"github.com/questx-lab/lotterypool/internal/domain/round"
	"github.com/questx-lab/lotterypool/internal/domain/settlement"
	"github.com/questx-lab/lotterypool/internal/domain/stats"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

type LotteryDomain interface {
	InitializePool(context.Context, *model.InitializePoolRequest) (*model.InitializePoolResponse, error)
	Enter(context.Context, *model.EnterRequest) (*model.EnterResponse, error)
	SettleRound(context.Context, *model.SettleRoundRequest) (*model.SettleRoundResponse, error)
	ClaimRefund(context.Context, *model.ClaimRefundRequest) (*model.ClaimRefundResponse, error)
	RenewEmptyRound(context.Context, *model.RenewEmptyRoundRequest) (*model.RenewEmptyRoundResponse, error)
	GetCurrentRound(context.Context, *model.GetCurrentRoundRequest) (*model.GetCurrentRoundResponse, error)
	GetRound(context.Context, *model.GetRoundRequest) (*model.GetRoundResponse, error)
	GetPlayerEntry(context.Context, *model.GetPlayerEntryRequest) (*model.GetPlayerEntryResponse, error)
	GetPlayers(context.Context, *model.GetPlayersRequest) (*model.GetPlayersResponse, error)
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
	GetEvents(context.Context, *model.GetEventsRequest) (*model.GetEventsResponse, error)
}

type lotteryDomain struct {
	registry   *round.Registry
	ledger     *entry.Ledger
	engine     *settlement.Engine
	aggregator *stats.Aggregator
	eventRepo  repository.PoolEventRepository
	locker     lock.Locker
	notifier   *notify.Notifier
}

func NewLotteryDomain(
	registry *round.Registry,
	ledger *entry.Ledger,
	engine *settlement.Engine,
	aggregator *stats.Aggregator,
	eventRepo repository.PoolEventRepository,
	locker lock.Locker,
	notifier *notify.Notifier,
) *lotteryDomain {
	return &lotteryDomain{
		registry:   registry,
		ledger:     ledger,
		engine:     engine,
		aggregator: aggregator,
		eventRepo:  eventRepo,
		locker:     locker,
		notifier:   notifier,
	}
}

// serialize runs fn holding the pool's lock inside one database transaction.
// Notifications emitted by fn are published only after the commit.
func (d *lotteryDomain) serialize(ctx context.Context, handle string, fn func(context.Context) error) error {
	unlock, err := d.locker.Lock(ctx, handle)
	if err != nil {
		return common.KeepOrUnknown(ctx, err, "Cannot lock pool")
	}
	defer unlock()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.RollbackDBTransaction(ctx)
	ctx = notify.WithOutbox(ctx)

	if err := fn(ctx); err != nil {
		d.notifier.Discard(ctx)
		return err
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		d.notifier.Discard(ctx)
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return errorx.Unknown
	}

	d.notifier.Flush(ctx)
	return nil
}

func (d *lotteryDomain) InitializePool(
	ctx context.Context, req *model.InitializePoolRequest,
) (*model.InitializePoolResponse, error) {
	var resp *model.InitializePoolResponse
	err := d.serialize(ctx, req.PoolHandle, func(ctx context.Context) error {
		pool, first, err := d.registry.Initialize(ctx, round.Config{
			Handle:        req.PoolHandle,
			Admin:         req.Admin,
			Asset:         req.Asset,
			Account:       req.Account,
			YieldSource:   entity.YieldSource(req.YieldSource),
			YieldRate:     req.YieldRate,
			Market:        req.Market,
			RoundDuration: req.RoundDuration,
			MinDeposit:    req.MinDeposit,
		})
		if err != nil {
			return err
		}

		resp = &model.InitializePoolResponse{
			Pool:  model.ConvertPool(pool),
			Round: model.ConvertRound(first),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (d *lotteryDomain) Enter(ctx context.Context, req *model.EnterRequest) (*model.EnterResponse, error) {
	var resp *model.EnterResponse
	err := d.serialize(ctx, req.PoolHandle, func(ctx context.Context) error {
		e, err := d.ledger.Enter(ctx, req.PoolHandle, req.Player, req.Amount)
		if err != nil {
			return err
		}

		resp = &model.EnterResponse{Entry: model.ConvertPlayerEntry(e)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (d *lotteryDomain) SettleRound(
	ctx context.Context, req *model.SettleRoundRequest,
) (*model.SettleRoundResponse, error) {
	var resp *model.SettleRoundResponse
	err := d.serialize(ctx, req.PoolHandle, func(ctx context.Context) error {
		outcome, err := d.engine.Settle(ctx, req.PoolHandle)
		if err != nil {
			return err
		}

		resp = &model.SettleRoundResponse{
			Outcome:      string(outcome.Kind),
			RoundID:      outcome.RoundID,
			Winner:       outcome.Winner,
			Prize:        outcome.Prize,
			RolledAmount: outcome.RolledAmount,
			NextRoundID:  outcome.NextRoundID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (d *lotteryDomain) ClaimRefund(
	ctx context.Context, req *model.ClaimRefundRequest,
) (*model.ClaimRefundResponse, error) {
	var resp *model.ClaimRefundResponse
	err := d.serialize(ctx, req.PoolHandle, func(ctx context.Context) error {
		e, err := d.ledger.ClaimRefund(ctx, req.PoolHandle, req.Player, req.RoundID)
		if err != nil {
			return err
		}

		resp = &model.ClaimRefundResponse{Amount: e.Deposit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (d *lotteryDomain) RenewEmptyRound(
	ctx context.Context, req *model.RenewEmptyRoundRequest,
) (*model.RenewEmptyRoundResponse, error) {
	var resp *model.RenewEmptyRoundResponse
	err := d.serialize(ctx, req.PoolHandle, func(ctx context.Context) error {
		pool, err := d.registry.Pool(ctx, req.PoolHandle)
		if err != nil {
			return err
		}

		renewed, err := d.registry.RenewEmptyRound(ctx, pool)
		if err != nil {
			return err
		}

		resp = &model.RenewEmptyRoundResponse{Round: model.ConvertRound(renewed)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (d *lotteryDomain) GetCurrentRound(
	ctx context.Context, req *model.GetCurrentRoundRequest,
) (*model.GetCurrentRoundResponse, error) {
	pool, err := d.registry.Pool(ctx, req.PoolHandle)
	if err != nil {
		return nil, err
	}

	current, err := d.registry.CurrentRound(ctx, pool)
	if err != nil {
		return nil, err
	}

	return &model.GetCurrentRoundResponse{Round: model.ConvertRound(current)}, nil
}

func (d *lotteryDomain) GetRound(ctx context.Context, req *model.GetRoundRequest) (*model.GetRoundResponse, error) {
	pool, err := d.registry.Pool(ctx, req.PoolHandle)
	if err != nil {
		return nil, err
	}

	r, err := d.registry.Round(ctx, pool, req.RoundID)
	if err != nil {
		return nil, err
	}

	return &model.GetRoundResponse{Round: model.ConvertRound(r)}, nil
}

func (d *lotteryDomain) GetPlayerEntry(
	ctx context.Context, req *model.GetPlayerEntryRequest,
) (*model.GetPlayerEntryResponse, error) {
	e, err := d.ledger.GetPlayerEntry(ctx, req.PoolHandle, req.RoundID, req.Player)
	if err != nil {
		return nil, err
	}

	return &model.GetPlayerEntryResponse{Entry: model.ConvertPlayerEntry(e)}, nil
}

func (d *lotteryDomain) GetPlayers(
	ctx context.Context, req *model.GetPlayersRequest,
) (*model.GetPlayersResponse, error) {
	entries, err := d.ledger.GetPlayers(ctx, req.PoolHandle, req.RoundID)
	if err != nil {
		return nil, err
	}

	players := []string{}
	for _, e := range entries {
		players = append(players, e.Player)
	}

	return &model.GetPlayersResponse{Players: players}, nil
}

func (d *lotteryDomain) GetStats(ctx context.Context, req *model.GetStatsRequest) (*model.GetStatsResponse, error) {
	s, err := d.aggregator.Stats(ctx, req.PoolHandle)
	if err != nil {
		return nil, err
	}

	return &model.GetStatsResponse{Stats: model.Stats{
		TotalRounds:     s.TotalRounds,
		TotalVolume:     s.TotalVolume,
		TotalPlayers:    s.TotalPlayers,
		TotalPrizesPaid: s.TotalPrizesPaid,
	}}, nil
}

func (d *lotteryDomain) GetEvents(ctx context.Context, req *model.GetEventsRequest) (*model.GetEventsResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultEventLimit
	}

	if req.Limit < 0 || req.Limit > maxEventLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 1 and %d", maxEventLimit)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	pool, err := d.registry.Pool(ctx, req.PoolHandle)
	if err != nil {
		return nil, err
	}

	events, err := d.eventRepo.GetList(ctx, repository.PoolEventFilter{
		PoolID:  pool.ID,
		RoundID: req.RoundID,
		Offset:  req.Offset,
		Limit:   req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get events: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PoolEvent{}
	for i := range events {
		result = append(result, model.ConvertPoolEvent(pool, &events[i]))
	}

	return &model.GetEventsResponse{Events: result}, nil
}
