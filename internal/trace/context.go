package trace

import "context"

type ctxKey struct{}

// carrier is what a context holds: the tracer and the innermost open span.
type carrier struct {
	tracer Tracer
	span   uint64
}

func carried(ctx context.Context) carrier {
	if ctx == nil {
		return carrier{tracer: Nop}
	}
	if c, ok := ctx.Value(ctxKey{}).(carrier); ok {
		return c
	}
	return carrier{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, Nop if there is none.
func FromContext(ctx context.Context) Tracer {
	return carried(ctx).tracer
}

// WithTracer attaches t to ctx. The current span, if any, is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := carried(ctx)
	c.tracer = t
	return context.WithValue(ctx, ctxKey{}, c)
}

// CurrentSpan returns the id of the innermost span started through ctx, 0 at
// the root.
func CurrentSpan(ctx context.Context) uint64 {
	return carried(ctx).span
}

func withSpan(ctx context.Context, id uint64) context.Context {
	c := carried(ctx)
	c.span = id
	return context.WithValue(ctx, ctxKey{}, c)
}
