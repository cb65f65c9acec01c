package stats

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/domain/round"
)

// PrizeEstimateDivisor estimates the prizes paid as 1% of the volume.
const PrizeEstimateDivisor = 100

type Stats struct {
	TotalRounds     int64
	TotalVolume     int64
	TotalPlayers    int64
	TotalPrizesPaid int64
}

type Aggregator struct {
	registry *round.Registry
}

func NewAggregator(registry *round.Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Stats returns the counters of a pool. TotalRounds counts the settled
// rounds and TotalPlayers counts entries, not distinct accounts.
func (a *Aggregator) Stats(ctx context.Context, handle string) (*Stats, error) {
	pool, err := a.registry.Pool(ctx, handle)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalRounds:     pool.CurrentRound - 1,
		TotalVolume:     pool.TotalVolume,
		TotalPlayers:    pool.TotalPlayers,
		TotalPrizesPaid: pool.TotalVolume / PrizeEstimateDivisor,
	}, nil
}
