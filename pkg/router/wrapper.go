package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

// requestContext takes cancellation from the request and values from both the
// request and the router.
type requestContext struct {
	context.Context
	values context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := router.befores

	return func(c *gin.Context) {
		var ctx context.Context = requestContext{Context: c.Request.Context(), values: router.ctx}

		for _, before := range befores {
			var err error
			ctx, err = before(ctx, c.Request)
			if err != nil {
				writeError(ctx, c, err)
				return
			}
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = c.ShouldBindQuery(&req)
		case http.MethodPost:
			err = c.ShouldBindJSON(&req)
		}
		if err != nil {
			writeError(ctx, c, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(ctx, c, err)
			return
		}

		c.JSON(http.StatusOK, newResponse(resp))
	}
}

func writeError(ctx context.Context, c *gin.Context, err error) {
	resp := newErrorResponse(err)
	if resp.Code == int64(errorx.Unknown.Code) {
		xcontext.Logger(ctx).Errorf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(http.StatusOK, resp)
}
