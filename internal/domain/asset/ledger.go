package asset

import (
	"context"
	"errors"

	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"gorm.io/gorm"
)

// ledgerProvider keeps balances in the database, so its transfers commit or
// roll back with the caller's transaction.
type ledgerProvider struct {
	balanceRepo repository.AssetBalanceRepository
}

func NewLedgerProvider(balanceRepo repository.AssetBalanceRepository) *ledgerProvider {
	return &ledgerProvider{balanceRepo: balanceRepo}
}

func (p *ledgerProvider) Token(asset string) (Token, error) {
	if asset == "" {
		return nil, errors.New("empty asset")
	}

	return &ledgerToken{asset: asset, balanceRepo: p.balanceRepo}, nil
}

type ledgerToken struct {
	asset       string
	balanceRepo repository.AssetBalanceRepository
}

func (t *ledgerToken) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return errorx.New(errorx.BadRequest, "Transfer amount must not be negative")
	}

	if amount == 0 || from == to {
		return nil
	}

	if err := t.balanceRepo.Decrease(ctx, t.asset, from, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InsufficientBalance, "Insufficient %s balance of %s", t.asset, from)
		}

		return err
	}

	return t.balanceRepo.Increase(ctx, t.asset, to, amount)
}

func (t *ledgerToken) Balance(ctx context.Context, account string) (int64, error) {
	return t.balanceRepo.Get(ctx, t.asset, account)
}

func (t *ledgerToken) Mint(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return errorx.New(errorx.BadRequest, "Mint amount must be positive")
	}

	return t.balanceRepo.Increase(ctx, t.asset, to, amount)
}
