package common

import (
	"fmt"
	"strings"
)

func RedisKeyWalletNonce(address string) string {
	return fmt.Sprintf("walletnonce:%s", strings.ToLower(address))
}
