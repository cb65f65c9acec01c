package yield

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"gorm.io/gorm"
)

type RequestKind int

// The values follow the request types of the capital market.
const (
	Supply             RequestKind = 0
	Withdraw           RequestKind = 1
	SupplyCollateral   RequestKind = 2
	WithdrawCollateral RequestKind = 3
)

type Request struct {
	Kind   RequestKind `json:"request_type"`
	Asset  string      `json:"address"`
	Amount int64       `json:"amount"`
}

// Market is a capital market which holds supplied funds on behalf of their
// owner.
type Market interface {
	Submit(ctx context.Context, market, from string, requests []Request) error
}

// ledgerMarket keeps positions in the database. The market address is also
// its account on every asset.
type ledgerMarket struct {
	positionRepo repository.MarketPositionRepository
	tokens       asset.Provider
}

func NewLedgerMarket(positionRepo repository.MarketPositionRepository, tokens asset.Provider) *ledgerMarket {
	return &ledgerMarket{positionRepo: positionRepo, tokens: tokens}
}

func (m *ledgerMarket) Submit(ctx context.Context, market, from string, requests []Request) error {
	for _, req := range requests {
		if req.Amount <= 0 {
			return errorx.New(errorx.BadRequest, "Market request amount must be positive")
		}

		token, err := m.tokens.Token(req.Asset)
		if err != nil {
			return err
		}

		var column repository.PositionColumn
		switch req.Kind {
		case Supply, Withdraw:
			column = repository.PositionSupplied
		case SupplyCollateral, WithdrawCollateral:
			column = repository.PositionCollateral
		default:
			return errorx.New(errorx.BadRequest, "Unknown market request type %d", req.Kind)
		}

		switch req.Kind {
		case Supply, SupplyCollateral:
			if err := token.Transfer(ctx, from, market, req.Amount); err != nil {
				return err
			}

			err = m.positionRepo.Increase(ctx, market, req.Asset, from, column, req.Amount)
			if err != nil {
				return err
			}

		case Withdraw, WithdrawCollateral:
			err := m.positionRepo.Decrease(ctx, market, req.Asset, from, column, req.Amount)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errorx.New(errorx.InsufficientBalance, "Insufficient %s position in market", column)
				}

				return err
			}

			if err := token.Transfer(ctx, market, from, req.Amount); err != nil {
				return err
			}
		}
	}

	return nil
}

// rpcMarket forwards requests to a market gateway over JSON-RPC.
type rpcMarket struct {
	client *rpc.Client
}

func NewRPCMarket(client *rpc.Client) *rpcMarket {
	return &rpcMarket{client: client}
}

func (m *rpcMarket) Submit(ctx context.Context, market, from string, requests []Request) error {
	var result any
	return m.client.CallContext(ctx, &result, "market_submit", market, from, requests)
}
