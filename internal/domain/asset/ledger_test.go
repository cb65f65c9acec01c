package asset

import (
	"testing"

	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestLedgerToken_Transfer(t *testing.T) {
	ctx := testutil.MockContext()
	token, err := NewLedgerProvider(repository.NewAssetBalanceRepository()).Token("USDC")
	require.NoError(t, err)

	require.NoError(t, token.(Minter).Mint(ctx, "alice", 100))
	require.NoError(t, token.Transfer(ctx, "alice", "pool", 60))

	err = token.Transfer(ctx, "alice", "pool", 41)
	require.Equal(t, errorx.InsufficientBalance, errorx.CodeOf(err))

	balance, err := token.Balance(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(40), balance)

	balance, err = token.Balance(ctx, "pool")
	require.NoError(t, err)
	require.Equal(t, int64(60), balance)
}

func TestLedgerToken_RollbackWithTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	token, err := NewLedgerProvider(repository.NewAssetBalanceRepository()).Token("USDC")
	require.NoError(t, err)
	require.NoError(t, token.(Minter).Mint(ctx, "alice", 100))

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, token.Transfer(txCtx, "alice", "pool", 100))
	xcontext.RollbackDBTransaction(txCtx)

	balance, err := token.Balance(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)
}

func TestLedgerToken_InvalidAmount(t *testing.T) {
	ctx := testutil.MockContext()
	token, err := NewLedgerProvider(repository.NewAssetBalanceRepository()).Token("USDC")
	require.NoError(t, err)

	require.Equal(t, errorx.BadRequest, errorx.CodeOf(token.Transfer(ctx, "alice", "pool", -1)))
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(token.(Minter).Mint(ctx, "alice", 0)))
	require.NoError(t, token.Transfer(ctx, "alice", "pool", 0))

	_, err = NewLedgerProvider(repository.NewAssetBalanceRepository()).Token("")
	require.Error(t, err)
}
