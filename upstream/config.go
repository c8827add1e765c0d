package upstream

import (
	"fmt"
	"time"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultAPIKeyHeader = "X-API-Key"
)

// Config configures one provider client.
type Config struct {
	// Name identifies the provider in errors and logs.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to every endpoint path.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single HTTP round trip. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// APIKey, when set, is sent on every request in APIKeyHeader.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// APIKeyHeader names the credential header. Defaults to X-API-Key.
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`

	// Headers are applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = defaultAPIKeyHeader
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("upstream: name is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("upstream: base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("upstream: timeout must be positive")
	}
	return nil
}
