package headerscope

import (
	"context"
)

// CallFunc dispatches a request for the named method with the resolved header
// set. The innermost CallFunc hands the headers to the transport.
type CallFunc func(ctx context.Context, method string, headers HeaderSet) error

// Decorator wraps a CallFunc and may rewrite the header set before delegating.
// Decorators must not retain or mutate shared state across attempts: the chain
// is re-run on every dispatch, so a retried request sees each decorator again.
type Decorator func(CallFunc) CallFunc

// ChainDecorators composes decorators into one. The last decorator in the list
// becomes the outermost wrapper, so its transformation is applied first to the
// outgoing request; this makes later registrations authoritative on
// conflicting header names.
func ChainDecorators(decorators ...Decorator) Decorator {
	return func(next CallFunc) CallFunc {
		for _, d := range decorators {
			if d != nil {
				next = d(next)
			}
		}
		return next
	}
}

// TransformDecorator returns a decorator that rewrites every value of the
// named header through the given transforms, in order. Headers the request
// does not carry are left absent.
func TransformDecorator(name string, transforms ...TransformFunc) Decorator {
	transform := ChainTransforms(transforms...)
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, headers HeaderSet) error {
			values := headers.Values(name)
			if len(values) == 0 {
				return next(ctx, method, headers)
			}
			headers = headers.Set(name, transform(values[0]))
			for _, v := range values[1:] {
				headers = headers.Add(name, transform(v))
			}
			return next(ctx, method, headers)
		}
	}
}

// StaticHeaderDecorator returns a decorator that forces a header to a fixed
// value on every request, overriding defaults and scoped overrides alike.
func StaticHeaderDecorator(name, value string) Decorator {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, headers HeaderSet) error {
			return next(ctx, method, headers.Set(name, value))
		}
	}
}
