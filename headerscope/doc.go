// Package headerscope attaches custom headers to outgoing gRPC requests,
// per client and per call.
//
// A Client wraps any grpc.ClientConnInterface and computes the headers of
// every request it dispatches by merging, in increasing priority: the
// client's configured defaults, the contextual scope active on the call's
// context, and the decorator pipeline, which runs closest to the transport.
//
// # Basic Usage
//
//	client, err := headerscope.NewClientBuilder().
//		SetHeader("authorization", "Bearer token-A").
//		AddHeader("x-team", "payments").
//		Build(conn)
//
//	svc := pb.NewEchoServiceClient(client)
//
// # Contextual overrides
//
// Overrides are scoped to a context and revert structurally when the scoped
// work returns, on every exit path:
//
//	ctx = headerscope.WithHeader(ctx, "authorization", "Bearer token-B")
//	rsp, err := svc.Echo(ctx, req) // carries token-B, no duplicates
//
// Scopes nest; the most recently entered scope wins on conflicting names, and
// scopes on one context are invisible to concurrent calls on other contexts.
//
// # Derived clients
//
// Derive creates a new client sharing the same connection with a copied,
// overridden configuration; the base client is never mutated:
//
//	traced, err := client.Derive(func(c *headerscope.Config) {
//		c.SetHeader("x-trace", "on")
//	})
//
// # Decorators
//
// Decorators transform the resolved header set before dispatch. Decorators
// registered later wrap those registered earlier and run first; they are
// re-run on every attempt, so retries resolve deterministically:
//
//	client, err := headerscope.NewClientBuilder().
//		Decorator(headerscope.RequestIDDecorator("x-request-id")).
//		Decorator(headerscope.TraceContextDecorator("x-trace-id", "x-span-id")).
//		Build(conn)
package headerscope
