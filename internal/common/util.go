package common

import (
	"context"
	"errors"

	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// KeepOrUnknown returns err as is if it is an errorx.Error. Any other error is
// logged with msg and replaced by errorx.Unknown.
func KeepOrUnknown(ctx context.Context, err error, msg string) error {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.Unknown
}
