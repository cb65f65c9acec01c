package auth

import (
	"context"

	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/ethutil"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// Verifier checks that the caller of an operation is account.
type Verifier interface {
	Verify(ctx context.Context, account string) error
}

// requestVerifier trusts the account proven by the request's access token.
// account must already be normalized with ethutil.NormalizeAccount.
type requestVerifier struct{}

func NewRequestVerifier() *requestVerifier {
	return &requestVerifier{}
}

func (v *requestVerifier) Verify(ctx context.Context, account string) error {
	caller := ethutil.NormalizeAccount(xcontext.RequestUserID(ctx))
	if caller == "" || account == "" || caller != account {
		return errorx.New(errorx.Unauthorized, "Caller is not %s", account)
	}

	return nil
}
