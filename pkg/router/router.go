package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It returns the context passed to the
// next middleware or handler. A non-nil error aborts the request.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	engine  *gin.Engine
	inner   gin.IRouter
	ctx     context.Context
	befores []MiddlewareFunc
}

// New returns a Router whose handlers receive contexts carrying the values of
// ctx (configs, logger, database) and the cancellation of their request.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{engine: engine, inner: engine, ctx: ctx}
}

// Before adds a middleware to routes registered after this call.
func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) Group(pattern string) *Router {
	befores := make([]MiddlewareFunc, len(r.befores))
	copy(befores, r.befores)

	return &Router{
		engine:  r.engine,
		inner:   r.inner.Group(pattern),
		ctx:     r.ctx,
		befores: befores,
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Handler returns the http.Handler of the router wrapped by CORS.
func (r *Router) Handler(allowOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(r.engine)
}
