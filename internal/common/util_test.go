package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func TestKeepOrUnknown(t *testing.T) {
	ctx := context.Background()

	err := KeepOrUnknown(ctx, fmt.Errorf("wrapped: %w", errorx.New(errorx.InsufficientBalance, "short")), "transfer")
	require.Equal(t, errorx.InsufficientBalance, errorx.CodeOf(err))

	err = KeepOrUnknown(ctx, errors.New("connection reset"), "transfer")
	require.Equal(t, errorx.Unknown, err)
}

func TestRedisKeyWalletNonce(t *testing.T) {
	require.Equal(t, "walletnonce:0xabc", RedisKeyWalletNonce("0xABC"))
}
