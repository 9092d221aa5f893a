package trace

import "context"

type ctxKey struct{}

// binding is what a context carries: the tracer and the innermost open span.
type binding struct {
	tracer Tracer
	span   *Span
}

func bound(ctx context.Context) binding {
	if ctx == nil {
		return binding{tracer: Nop}
	}
	if b, ok := ctx.Value(ctxKey{}).(binding); ok {
		return b
	}
	return binding{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return bound(ctx).tracer
}

// WithTracer attaches t to ctx. Spans already in ctx are kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	b := bound(ctx)
	b.tracer = t
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, b)
}

// SpanFrom returns the innermost span started with Start, or nil.
func SpanFrom(ctx context.Context) *Span {
	return bound(ctx).span
}

// Start begins a span under the one in ctx, using ctx's tracer, and returns
// a context carrying the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	b := bound(ctx)
	s := Begin(b.tracer, scope, name, b.span)
	if ctx == nil {
		ctx = context.Background()
	}
	b.span = s
	return context.WithValue(ctx, ctxKey{}, b), s
}
