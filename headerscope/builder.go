package headerscope

import (
	"google.golang.org/grpc"
)

// ClientBuilder provides a fluent API for assembling a client's header
// configuration.
type ClientBuilder struct {
	config *Config
	logger Logger
}

// NewClientBuilder creates a new client builder.
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		config: &Config{},
		logger: NoOpLogger{},
	}
}

// SetHeader configures a default header, replacing any default values
// previously configured for the name.
func (b *ClientBuilder) SetHeader(name, value string) *ClientBuilder {
	b.config.SetHeader(name, value)
	return b
}

// AddHeader configures a default header appended alongside existing values.
func (b *ClientBuilder) AddHeader(name, value string) *ClientBuilder {
	b.config.AddHeader(name, value)
	return b
}

// Headers configures all entries of the set as default headers, keeping each
// entry's add-or-set semantics.
func (b *ClientBuilder) Headers(set HeaderSet) *ClientBuilder {
	for _, e := range set.entries {
		b.config.Defaults = append(b.config.Defaults, HeaderDefault{
			Name:    e.name,
			Value:   e.value,
			Replace: e.replace,
		})
	}
	return b
}

// Decorator appends a decorator to the pipeline. Decorators registered later
// wrap those registered earlier and run first.
func (b *ClientBuilder) Decorator(d Decorator) *ClientBuilder {
	b.config.AddDecorator(d)
	return b
}

// Debug enables resolved-header logging.
func (b *ClientBuilder) Debug(debug bool) *ClientBuilder {
	b.config.Debug = debug
	return b
}

// WithLogger sets the logger used for debug output.
func (b *ClientBuilder) WithLogger(logger Logger) *ClientBuilder {
	b.logger = logger
	return b
}

// WithConfig merges a loaded configuration's defaults and debug flag into the
// builder, after any headers configured so far.
func (b *ClientBuilder) WithConfig(config *Config) *ClientBuilder {
	if config == nil {
		return b
	}
	b.config.Defaults = append(b.config.Defaults, config.Defaults...)
	b.config.Decorators = append(b.config.Decorators, config.Decorators...)
	b.config.Debug = b.config.Debug || config.Debug
	return b
}

// Build validates the configuration and creates the client over the given
// connection.
func (b *ClientBuilder) Build(cc grpc.ClientConnInterface) (*Client, error) {
	client, err := NewClient(cc, b.config.Clone())
	if err != nil {
		return nil, err
	}
	client.SetLogger(b.logger)
	return client, nil
}
