package mocks

import (
	"context"
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// EthClient mocks the chain reads of an ethclient.Client.
type EthClient struct {
	mock.Mock
}

func (c *EthClient) HeaderByNumber(arg1 context.Context, arg2 *big.Int) (*ethtypes.Header, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ethtypes.Header), args.Error(1)
}
