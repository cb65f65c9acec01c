package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/lotterypool/internal/model"
	"github.com/questx-lab/lotterypool/pkg/authenticator"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/router"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine}
}

// Middleware puts the account of the request's access token in the context.
// Requests without a token pass through anonymously.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		token := accessToken(ctx, r)
		if token == "" {
			return ctx, nil
		}

		info, err := a.tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.Account), nil
	}
}

func accessToken(ctx context.Context, r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "bearer") {
			return token
		}
	}

	cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// Authenticate rejects anonymous requests.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context, _ *http.Request) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
