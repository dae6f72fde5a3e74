package headerscope

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDDecorator returns a decorator that stamps a fresh UUID into the
// named header on requests that do not already carry one. Requests that carry
// the header, whether from a default, a scope, or an upstream caller, keep it.
func RequestIDDecorator(name string) Decorator {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, headers HeaderSet) error {
			if _, ok := headers.Get(name); !ok {
				headers = headers.Set(name, uuid.NewString())
			}
			return next(ctx, method, headers)
		}
	}
}

// TraceContextDecorator returns a decorator that stamps the active span's
// trace and span IDs into the given headers. Requests dispatched outside a
// recording span are sent unchanged. Pass an empty spanHeader to stamp the
// trace ID only.
func TraceContextDecorator(traceHeader, spanHeader string) Decorator {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, headers HeaderSet) error {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasTraceID() {
				headers = headers.Set(traceHeader, sc.TraceID().String())
			}
			if spanHeader != "" && sc.HasSpanID() {
				headers = headers.Set(spanHeader, sc.SpanID().String())
			}
			return next(ctx, method, headers)
		}
	}
}
