package headerscope

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// Client wraps a gRPC connection and attaches headers to every outgoing
// request. It implements grpc.ClientConnInterface, so generated service stubs
// can be constructed directly on top of it.
//
// The effective header set of a request is computed at dispatch time, in
// increasing priority: the client's configured defaults, the contextual scope
// active on the call's context, then the decorator pipeline, which runs
// closest to the transport and is authoritative on conflicts.
type Client struct {
	cc       grpc.ClientConnInterface
	config   *Config
	defaults HeaderSet
	chain    Decorator
	logger   Logger
}

// NewClient creates a Client over the given connection. The configuration is
// validated and then owned exclusively by the client; callers must not mutate
// it afterwards. A nil config yields a client that only forwards contextual
// scopes.
func NewClient(cc grpc.ClientConnInterface, config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return &Client{
		cc:       cc,
		config:   config,
		defaults: config.headerSet(),
		chain:    ChainDecorators(config.Decorators...),
		logger:   NoOpLogger{},
	}, nil
}

// SetLogger sets a custom logger.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Derive creates a new client whose configuration is a copy of this client's
// configuration with the override applied. The derived client shares the
// underlying connection; no transport state is duplicated and the base
// client's configuration is never touched. An override that produces an
// invalid configuration fails synchronously.
func (c *Client) Derive(override func(*Config)) (*Client, error) {
	config := c.config.Clone()
	if override != nil {
		override(config)
	}
	derived, err := NewClient(c.cc, config)
	if err != nil {
		return nil, fmt.Errorf("derive client: %w", err)
	}
	derived.logger = c.logger
	return derived, nil
}

// Invoke implements grpc.ClientConnInterface.
func (c *Client) Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error {
	return c.dispatch(ctx, method, func(ctx context.Context, method string, headers HeaderSet) error {
		return c.cc.Invoke(headers.ApplyToOutgoingContext(ctx), method, args, reply, opts...)
	})
}

// NewStream implements grpc.ClientConnInterface. Headers are resolved once,
// when the stream is opened, and remain stable for the stream's lifetime.
func (c *Client) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	var stream grpc.ClientStream
	err := c.dispatch(ctx, method, func(ctx context.Context, method string, headers HeaderSet) error {
		var err error
		stream, err = c.cc.NewStream(headers.ApplyToOutgoingContext(ctx), desc, method, opts...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// dispatch resolves the effective header set and runs the decorated call.
// Resolution reads only immutable snapshots, so retrying the call re-runs it
// deterministically.
func (c *Client) dispatch(ctx context.Context, method string, call CallFunc) error {
	return c.chain(call)(ctx, method, c.resolve(ctx))
}

func (c *Client) resolve(ctx context.Context) HeaderSet {
	effective := c.defaults
	if scoped, ok := FromContext(ctx); ok {
		effective = effective.Merge(scoped)
	}
	if c.config.Debug {
		c.logger.Debug("resolved headers:", effective.Headers())
	}
	return effective
}

// UnaryClientInterceptor returns an interceptor that performs the same
// defaults-scope-decorators resolution for connections dialed with
// grpc.WithChainUnaryInterceptor, for callers who prefer interceptor wiring
// over wrapping the connection.
func (c *Client) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return c.dispatch(ctx, method, func(ctx context.Context, method string, headers HeaderSet) error {
			return invoker(headers.ApplyToOutgoingContext(ctx), method, req, reply, cc, opts...)
		})
	}
}

// StreamClientInterceptor returns the stream counterpart of
// UnaryClientInterceptor.
func (c *Client) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		var stream grpc.ClientStream
		err := c.dispatch(ctx, method, func(ctx context.Context, method string, headers HeaderSet) error {
			var err error
			stream, err = streamer(headers.ApplyToOutgoingContext(ctx), desc, cc, method, opts...)
			return err
		})
		if err != nil {
			return nil, err
		}
		return stream, nil
	}
}
