package kit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Endpoint is a transport-agnostic action function.
// Each action (compose, extract, abbreviate) is an Endpoint.
// HTTP handlers and MCP tools both dispatch to the same Endpoints.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Middleware wraps an Endpoint with cross-cutting concerns (logging, metrics).
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first is outermost.
// Chain(a, b, c)(endpoint) == a(b(c(endpoint)))
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}

// Logging logs every call of the named endpoint at debug level and
// failures at warn level.
func Logging(logger *zap.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			fields := []zap.Field{
				zap.String("endpoint", name),
				zap.String("transport", GetTransport(ctx)),
				zap.String("request_id", GetRequestID(ctx)),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				logger.Warn("endpoint failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("endpoint done", fields...)
			}
			return resp, err
		}
	}
}
