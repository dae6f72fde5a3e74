package headerscope

import (
	"context"
)

type scopeKey struct{}

// NewContext returns a context carrying the active header scope layered with
// the given delta. The previously active scope, if any, is merged under the
// delta so the most recently entered scope wins on conflicting names. The
// merged snapshot is immutable: scopes entered later on other contexts cannot
// leak into calls already dispatched with the returned context.
//
// Exiting a scope is structural. The caller keeps using its own context once
// the scoped work returns, so release is guaranteed on every exit path and
// out-of-order release is impossible.
func NewContext(ctx context.Context, delta HeaderSet) context.Context {
	if prev, ok := FromContext(ctx); ok {
		delta = prev.Merge(delta)
	}
	return context.WithValue(ctx, scopeKey{}, delta)
}

// FromContext returns the header scope active on the context.
func FromContext(ctx context.Context) (HeaderSet, bool) {
	hs, ok := ctx.Value(scopeKey{}).(HeaderSet)
	return hs, ok
}

// WithHeader returns a context whose scope overrides a single header. Any
// values the ambient scope or client defaults carry for the name are replaced.
func WithHeader(ctx context.Context, name, value string) context.Context {
	return NewContext(ctx, HeaderSet{}.Set(name, value))
}

// WithAddedHeader returns a context whose scope appends a value for the name
// without displacing existing values.
func WithAddedHeader(ctx context.Context, name, value string) context.Context {
	return NewContext(ctx, HeaderSet{}.Add(name, value))
}

// WithHeaders returns a context whose scope layers the given set.
func WithHeaders(ctx context.Context, set HeaderSet) context.Context {
	return NewContext(ctx, set)
}

// WithHeaderMap returns a context whose scope overrides every header in the map.
func WithHeaderMap(ctx context.Context, headers map[string]string) context.Context {
	return NewContext(ctx, HeaderSetFromMap(headers))
}

// Scoped runs fn with the delta layered onto the active scope. The scope is
// confined to fn's context argument and reverts when fn returns, whether fn
// succeeds, fails, or panics.
func Scoped(ctx context.Context, delta HeaderSet, fn func(context.Context) error) error {
	return fn(NewContext(ctx, delta))
}
