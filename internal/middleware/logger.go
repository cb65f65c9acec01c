package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/questx-lab/lotterypool/pkg/router"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// Logger tags the request with an id and logs it.
func Logger() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx = xcontext.WithRequestID(ctx, requestID)
		xcontext.Logger(ctx).Infof("%s | %s | %s", requestID, r.Method, r.URL.Path)
		return ctx, nil
	}
}
