package domain

import (
	"context"
	"errors"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/lotterypool/internal/common"
	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/authenticator"
	"github.com/questx-lab/lotterypool/pkg/crypto"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/questx-lab/lotterypool/pkg/xredis"
)

type WalletAuthDomain interface {
	Login(context.Context, *model.WalletLoginRequest) (*model.WalletLoginResponse, error)
	Verify(context.Context, *model.WalletVerifyRequest) (*model.WalletVerifyResponse, error)
}

type walletAuthDomain struct {
	redisClient xredis.Client
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewWalletAuthDomain(
	redisClient xredis.Client,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *walletAuthDomain {
	return &walletAuthDomain{redisClient: redisClient, tokenEngine: tokenEngine}
}

// loginMessage is the text the wallet signs.
func loginMessage(nonce string) string {
	return fmt.Sprintf("Sign in to lotterypool: %s", nonce)
}

func (d *walletAuthDomain) Login(
	ctx context.Context, req *model.WalletLoginRequest,
) (*model.WalletLoginResponse, error) {
	if !ethcommon.IsHexAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid address")
	}

	nonce, err := crypto.GenerateNonce(16)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate nonce: %v", err)
		return nil, errorx.Unknown
	}

	err = d.redisClient.Set(ctx, common.RedisKeyWalletNonce(req.Address), nonce,
		xcontext.Configs(ctx).Auth.NonceExpiration)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save nonce: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WalletLoginResponse{Nonce: nonce, Message: loginMessage(nonce)}, nil
}

func (d *walletAuthDomain) Verify(
	ctx context.Context, req *model.WalletVerifyRequest,
) (*model.WalletVerifyResponse, error) {
	if !ethcommon.IsHexAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid address")
	}

	key := common.RedisKeyWalletNonce(req.Address)
	nonce, err := d.redisClient.Get(ctx, key)
	if err != nil {
		if errors.Is(err, xredis.ErrNotFound) {
			return nil, errorx.New(errorx.Unauthorized, "Nonce is expired, login again")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nonce: %v", err)
		return nil, errorx.Unknown
	}

	signer, err := ethutil.RecoverTextSigner(loginMessage(nonce), req.Signature)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot recover signer: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid signature")
	}

	if signer != ethcommon.HexToAddress(req.Address) {
		return nil, errorx.New(errorx.Unauthorized, "Mismatched address")
	}

	// A nonce is only good for one login.
	if err := d.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete nonce: %v", err)
		return nil, errorx.Unknown
	}

	account := signer.Hex()
	token, err := d.tokenEngine.Generate(account, model.AccessToken{Account: account})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.WalletVerifyResponse{AccessToken: token, Account: account}, nil
}
