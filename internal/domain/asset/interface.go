package asset

import "context"

// Token moves one asset between accounts.
type Token interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
	Balance(ctx context.Context, account string) (int64, error)
}

// Minter is implemented by tokens which can create supply.
type Minter interface {
	Mint(ctx context.Context, to string, amount int64) error
}

type Provider interface {
	Token(asset string) (Token, error)
}
