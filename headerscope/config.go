package headerscope

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidHeaderName reports a header name rejected at construction or
// derivation time. Header names are validated before a client is built, never
// while a request is being dispatched.
var ErrInvalidHeaderName = errors.New("invalid header name")

// HeaderDefault is one default header baked into a client at construction
// time. Replace controls merge behavior: a replacing default displaces any
// same-named values contributed by lower-priority sources, a non-replacing
// default is appended alongside them.
type HeaderDefault struct {
	// Name is the header name (case-insensitive, stored lowercase).
	Name string `json:"name" yaml:"name"`
	// Value is the header value, treated as an opaque string.
	Value string `json:"value" yaml:"value"`
	// Replace selects set semantics instead of add semantics.
	Replace bool `json:"replace" yaml:"replace"`
}

// Config holds the static header configuration of a client. It is set once
// when the client is built and never mutated afterwards, so it is safe to
// read from concurrent calls.
type Config struct {
	// Defaults are headers attached to every request issued by the client.
	Defaults []HeaderDefault `json:"defaults" yaml:"defaults"`
	// Decorators transform the resolved header set before dispatch.
	// The last decorator registered is the outermost and runs first.
	Decorators []Decorator `json:"-" yaml:"-"`
	// Debug enables logging of the resolved header set on every call.
	Debug bool `json:"debug" yaml:"debug"`
}

// Clone returns a deep copy of the configuration. Derived clients own their
// copy exclusively; mutating the clone never affects the original.
func (c *Config) Clone() *Config {
	clone := &Config{Debug: c.Debug}
	if len(c.Defaults) > 0 {
		clone.Defaults = make([]HeaderDefault, len(c.Defaults))
		copy(clone.Defaults, c.Defaults)
	}
	if len(c.Decorators) > 0 {
		clone.Decorators = make([]Decorator, len(c.Decorators))
		copy(clone.Decorators, c.Decorators)
	}
	return clone
}

// SetHeader appends a replacing default for the name, removing any default
// values previously configured for it.
func (c *Config) SetHeader(name, value string) {
	name = strings.ToLower(name)
	defaults := c.Defaults[:0:0]
	for _, d := range c.Defaults {
		if strings.ToLower(d.Name) != name {
			defaults = append(defaults, d)
		}
	}
	c.Defaults = append(defaults, HeaderDefault{Name: name, Value: value, Replace: true})
}

// AddHeader appends a non-replacing default for the name.
func (c *Config) AddHeader(name, value string) {
	c.Defaults = append(c.Defaults, HeaderDefault{Name: strings.ToLower(name), Value: value})
}

// AddDecorator appends a decorator to the pipeline.
func (c *Config) AddDecorator(d Decorator) {
	c.Decorators = append(c.Decorators, d)
}

// headerSet materializes the defaults as an immutable HeaderSet.
func (c *Config) headerSet() HeaderSet {
	var hs HeaderSet
	for _, d := range c.Defaults {
		if d.Replace {
			hs = hs.Set(d.Name, d.Value)
		} else {
			hs = hs.Add(d.Name, d.Value)
		}
	}
	return hs
}

// ValidateConfig checks every configured header name. It fails fast so that
// no header error can surface mid-dispatch.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration is nil")
	}
	for i, d := range config.Defaults {
		if err := validateHeaderName(d.Name); err != nil {
			return fmt.Errorf("default %d: %w", i, err)
		}
	}
	return nil
}

// validateHeaderName rejects names that gRPC metadata cannot carry: empty
// names, names with characters outside the metadata key alphabet, and names
// under the reserved grpc- prefix.
func validateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidHeaderName)
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "grpc-") {
		return fmt.Errorf("%w: %q uses the reserved grpc- prefix", ErrInvalidHeaderName, name)
	}
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return fmt.Errorf("%w: %q contains invalid character %q", ErrInvalidHeaderName, name, c)
		}
	}
	return nil
}

// LoadConfigFromFile loads configuration from a file (JSON or YAML).
func LoadConfigFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, &config); err != nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file as YAML or JSON: %w", err)
		}
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfigToFile saves configuration to a file.
func SaveConfigToFile(config *Config, filename string, format string) error {
	var data []byte
	var err error

	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(config)
	case "json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}
