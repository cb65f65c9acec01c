package domain

import (
	"testing"

	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/internal/repository"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_assetDomain_Mint(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.AssetAdmin)
	d := NewAssetDomain(asset.NewLedgerProvider(repository.NewAssetBalanceRepository()))

	resp, err := d.Mint(ctx, &model.MintRequest{Asset: "USDC", To: "alice", Amount: 500})
	require.NoError(t, err)
	require.Equal(t, int64(500), resp.Balance)

	resp, err = d.Mint(ctx, &model.MintRequest{Asset: "USDC", To: "alice", Amount: 250})
	require.NoError(t, err)
	require.Equal(t, int64(750), resp.Balance)

	_, err = d.Mint(ctx, &model.MintRequest{Asset: "USDC", To: "alice", Amount: 0})
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))

	_, err = d.Mint(testutil.WithUserID(ctx, "alice"), &model.MintRequest{Asset: "USDC", To: "alice", Amount: 1})
	require.Equal(t, errorx.PermissionDenied, errorx.CodeOf(err))

	balance, err := d.GetBalance(ctx, &model.GetBalanceRequest{Asset: "USDC", Account: "alice"})
	require.NoError(t, err)
	require.Equal(t, int64(750), balance.Balance)

	balance, err = d.GetBalance(ctx, &model.GetBalanceRequest{Asset: "USDC", Account: "bob"})
	require.NoError(t, err)
	require.Zero(t, balance.Balance)
}
