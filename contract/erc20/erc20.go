// Package erc20 binds the subset of the ERC-20 interface used to move pool
// deposits on chain.
package erc20

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const ABI = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

type Erc20 struct {
	contract *bind.BoundContract
}

func NewErc20(address common.Address, backend bind.ContractBackend) (*Erc20, error) {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		return nil, err
	}

	return &Erc20{contract: bind.NewBoundContract(address, parsed, backend, backend, backend)}, nil
}

func (e *Erc20) BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error) {
	var out []any
	if err := e.contract.Call(opts, &out, "balanceOf", account); err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (e *Erc20) Transfer(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return e.contract.Transact(opts, "transfer", to, amount)
}

func (e *Erc20) TransferFrom(
	opts *bind.TransactOpts, from, to common.Address, amount *big.Int,
) (*types.Transaction, error) {
	return e.contract.Transact(opts, "transferFrom", from, to, amount)
}
