package yield

import (
	"context"
	"fmt"

	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/entity"
	"github.com/questx-lab/lotterypool/pkg/numberutil"
)

const (
	SecondsPerYear = 31_536_000
	// WithdrawBasisPoints is the share of principal withdrawn from the market
	// at settlement. The rest is the market's fee.
	WithdrawBasisPoints = 9_999
	// HouseYieldDivisor derives the yield from the pool's own balance: 5%.
	HouseYieldDivisor = 20
)

// Realization is the result of closing a round's capital.
type Realization struct {
	Yield int64
	// Principal is the sum of the players' deposits.
	Principal int64
	// Returned is how much of Principal is back on the pool account.
	Returned int64
}

// RefundOf returns the share of Returned owed to a deposit.
func (r Realization) RefundOf(deposit int64) (int64, error) {
	if r.Returned == r.Principal {
		return deposit, nil
	}

	return numberutil.MulDiv(deposit, r.Returned, r.Principal)
}

type Source interface {
	// Deploy stages a deposit already held by the pool account.
	Deploy(ctx context.Context, pool *entity.Pool, amount int64) error
	// Realize brings the round's capital back to the pool account and returns
	// the yield it earned.
	Realize(ctx context.Context, pool *entity.Pool, round *entity.Round) (Realization, error)
}

type Factory struct {
	tokens asset.Provider
	market Market
}

func NewFactory(tokens asset.Provider, market Market) *Factory {
	return &Factory{tokens: tokens, market: market}
}

func (f *Factory) Source(pool *entity.Pool) (Source, error) {
	switch pool.YieldSource {
	case entity.YieldSourceNone:
		return noneSource{}, nil
	case entity.YieldSourceRateTimeMock:
		return rateTimeMockSource{}, nil
	case entity.YieldSourceExternalPool:
		if f.market == nil {
			return nil, fmt.Errorf("no market configured for pool %s", pool.Handle)
		}

		return &externalPoolSource{tokens: f.tokens, market: f.market}, nil
	}

	return nil, fmt.Errorf("unknown yield source %s", pool.YieldSource)
}

type noneSource struct{}

func (noneSource) Deploy(context.Context, *entity.Pool, int64) error {
	return nil
}

func (noneSource) Realize(_ context.Context, _ *entity.Pool, round *entity.Round) (Realization, error) {
	return Realization{Principal: round.Principal(), Returned: round.Principal()}, nil
}

// rateTimeMockSource accrues a fixed annual rate over the round duration.
type rateTimeMockSource struct{}

func (rateTimeMockSource) Deploy(context.Context, *entity.Pool, int64) error {
	return nil
}

func (rateTimeMockSource) Realize(_ context.Context, pool *entity.Pool, round *entity.Round) (Realization, error) {
	yield, err := RateTimeYield(round.TotalDeposits, pool.YieldRate, pool.RoundDuration)
	if err != nil {
		return Realization{}, err
	}

	return Realization{Yield: yield, Principal: round.Principal(), Returned: round.Principal()}, nil
}

// RateTimeYield returns floor(deposits * rate * duration / (year * 10000)).
func RateTimeYield(deposits, rate, duration int64) (int64, error) {
	return numberutil.ProductDiv(SecondsPerYear*10_000, deposits, rate, duration)
}

// externalPoolSource supplies every deposit as collateral to the pool's
// market and withdraws it at settlement.
type externalPoolSource struct {
	tokens asset.Provider
	market Market
}

func (s *externalPoolSource) Deploy(ctx context.Context, pool *entity.Pool, amount int64) error {
	return s.market.Submit(ctx, pool.Market, pool.Account, []Request{
		{Kind: SupplyCollateral, Asset: pool.Asset, Amount: amount},
	})
}

func (s *externalPoolSource) Realize(
	ctx context.Context, pool *entity.Pool, round *entity.Round,
) (Realization, error) {
	token, err := s.tokens.Token(pool.Asset)
	if err != nil {
		return Realization{}, err
	}

	before, err := token.Balance(ctx, pool.Account)
	if err != nil {
		return Realization{}, err
	}

	// The seed was never supplied to the market, only the principal was.
	principal := round.Principal()
	amount, err := numberutil.BasisPoints(principal, WithdrawBasisPoints)
	if err != nil {
		return Realization{}, err
	}

	if amount > 0 {
		err := s.market.Submit(ctx, pool.Market, pool.Account, []Request{
			{Kind: WithdrawCollateral, Asset: pool.Asset, Amount: amount},
		})
		if err != nil {
			return Realization{}, err
		}
	}

	after, err := token.Balance(ctx, pool.Account)
	if err != nil {
		return Realization{}, err
	}

	return Realization{
		Yield:     before / HouseYieldDivisor,
		Principal: principal,
		Returned:  after - before,
	}, nil
}
