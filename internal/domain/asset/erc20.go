package asset

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/questx-lab/lotterypool/contract/erc20"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// erc20Provider moves assets on an EVM chain. Transfers out of the signer's
// account use transfer, any other transfer uses transferFrom and needs an
// allowance to the signer. Chain transfers are not rolled back with the
// database transaction.
type erc20Provider struct {
	client     *ethclient.Client
	chainID    *big.Int
	privateKey *ecdsa.PrivateKey
	signer     common.Address
}

func NewERC20Provider(ctx context.Context, client *ethclient.Client, hexKey string) (*erc20Provider, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	return &erc20Provider{
		client:     client,
		chainID:    chainID,
		privateKey: privateKey,
		signer:     crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Signer is the account the provider sends transactions from. Pools using
// this provider must use it as their account.
func (p *erc20Provider) Signer() string {
	return p.signer.Hex()
}

func (p *erc20Provider) Token(asset string) (Token, error) {
	if !common.IsHexAddress(asset) {
		return nil, fmt.Errorf("invalid token address %s", asset)
	}

	instance, err := erc20.NewErc20(common.HexToAddress(asset), p.client)
	if err != nil {
		return nil, err
	}

	return &erc20Token{provider: p, instance: instance}, nil
}

type erc20Token struct {
	provider *erc20Provider
	instance *erc20.Erc20
}

func (t *erc20Token) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return errorx.New(errorx.BadRequest, "Transfer amount must not be negative")
	}

	if amount == 0 || strings.EqualFold(from, to) {
		return nil
	}

	if !common.IsHexAddress(from) || !common.IsHexAddress(to) {
		return errorx.New(errorx.BadRequest, "Invalid address")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(t.provider.privateKey, t.provider.chainID)
	if err != nil {
		return err
	}
	opts.Context = ctx

	var tx *ethtypes.Transaction
	if common.HexToAddress(from) == t.provider.signer {
		tx, err = t.instance.Transfer(opts, common.HexToAddress(to), big.NewInt(amount))
	} else {
		tx, err = t.instance.TransferFrom(opts, common.HexToAddress(from), common.HexToAddress(to), big.NewInt(amount))
	}
	if err != nil {
		return err
	}

	receipt, err := bind.WaitMined(ctx, t.provider.client, tx)
	if err != nil {
		return err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		xcontext.Logger(ctx).Errorf("Transfer transaction %s reverted", tx.Hash().Hex())
		return errorx.New(errorx.InsufficientBalance, "Transfer from %s was reverted", from)
	}

	return nil
}

func (t *erc20Token) Balance(ctx context.Context, account string) (int64, error) {
	if !common.IsHexAddress(account) {
		return 0, errorx.New(errorx.BadRequest, "Invalid address")
	}

	balance, err := t.instance.BalanceOf(&bind.CallOpts{Context: ctx}, common.HexToAddress(account))
	if err != nil {
		return 0, err
	}

	if !balance.IsInt64() {
		return 0, fmt.Errorf("balance of %s overflows int64", account)
	}

	return balance.Int64(), nil
}
