package domain

import (
	"context"

	"github.com/questx-lab/lotterypool/internal/common"
	"github.com/questx-lab/lotterypool/internal/domain/asset"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

type AssetDomain interface {
	Mint(context.Context, *model.MintRequest) (*model.MintResponse, error)
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
}

type assetDomain struct {
	tokens asset.Provider
}

func NewAssetDomain(tokens asset.Provider) *assetDomain {
	return &assetDomain{tokens: tokens}
}

func (d *assetDomain) Mint(ctx context.Context, req *model.MintRequest) (*model.MintResponse, error) {
	admin := ethutil.NormalizeAccount(xcontext.Configs(ctx).Asset.Admin)
	if admin == "" || ethutil.NormalizeAccount(xcontext.RequestUserID(ctx)) != admin {
		return nil, errorx.New(errorx.PermissionDenied, "Only the asset admin can mint")
	}

	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Mint amount must be positive")
	}

	to := ethutil.NormalizeAccount(req.To)
	if to == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty recipient")
	}

	token, err := d.tokens.Token(req.Asset)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid asset %s", req.Asset)
	}

	minter, ok := token.(asset.Minter)
	if !ok {
		return nil, errorx.New(errorx.NotImplemented, "Asset %s cannot be minted", req.Asset)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.RollbackDBTransaction(ctx)

	if err := minter.Mint(ctx, to, req.Amount); err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot mint")
	}

	balance, err := token.Balance(ctx, to)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MintResponse{Balance: balance}, nil
}

func (d *assetDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	token, err := d.tokens.Token(req.Asset)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid asset %s", req.Asset)
	}

	balance, err := token.Balance(ctx, ethutil.NormalizeAccount(req.Account))
	if err != nil {
		return nil, common.KeepOrUnknown(ctx, err, "Cannot get balance")
	}

	return &model.GetBalanceResponse{Balance: balance}, nil
}
