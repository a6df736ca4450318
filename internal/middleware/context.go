// Package middleware provides the Echo middleware chain: request identity,
// structured logging, and telemetry. All hooks are side-effect-only; none
// alters control flow or body content, and an internal hook failure never
// surfaces to the client.
package middleware

import (
	"context"
	"time"
)

// RequestContext is the per-request ephemeral state threaded through the
// pipeline: a unique identifier and the monotonic start timestamp. It is
// created once when the request enters the chain, never mutated afterwards,
// and discarded when the response is sent.
type RequestContext struct {
	ID        string
	StartedAt time.Time
}

type contextKey struct{}

// WithRequestContext attaches a RequestContext to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the RequestContext attached to ctx, if any.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(*RequestContext)
	return rc, ok
}
