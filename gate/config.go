package gate

import (
	"fmt"
	"time"

	"github.com/meridianlab/marketgate/cache"
	"github.com/meridianlab/marketgate/validation"
)

const defaultNamespace = "marketgate"

// Config configures a Gateway.
type Config struct {
	// Namespace prefixes every cache key.
	Namespace string `yaml:"namespace" mapstructure:"namespace" validate:"required"`
	// Cache configures the shared response cache.
	Cache cache.Config `yaml:"cache" mapstructure:"cache"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = defaultNamespace
	}
	if c.Cache.Name == "" {
		c.Cache.Name = c.Namespace
	}
	c.Cache.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("gate: invalid config: %w", err)
	}
	return c.Cache.Validate()
}

// BreakerConfig is the per-dependency circuit breaker configuration.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gte=1"`
	ResetTimeout     time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout" validate:"gt=0"`
}

// RateLimitConfig is the per-dependency rate limiter configuration.
type RateLimitConfig struct {
	Limit  int           `yaml:"limit" mapstructure:"limit" validate:"gte=1"`
	Window time.Duration `yaml:"window" mapstructure:"window" validate:"gt=0"`
}

// RetryConfig is the per-dependency retry policy configuration.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
	BaseDelay  time.Duration `yaml:"base_delay" mapstructure:"base_delay" validate:"gt=0"`
	MaxDelay   time.Duration `yaml:"max_delay" mapstructure:"max_delay" validate:"gte=0"`
	Jitter     bool          `yaml:"jitter" mapstructure:"jitter"`
}

// DependencyConfig configures one upstream dependency: its breaker,
// rate limiter, retry policy, and optional concurrency cap.
type DependencyConfig struct {
	// Name identifies the dependency; it is also the rate-limit
	// resource key and the breaker name.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`

	Breaker   BreakerConfig   `yaml:"breaker" mapstructure:"breaker"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`

	// MaxConcurrent caps in-flight upstream calls. 0 disables the cap.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`

	// CacheTTL is the default TTL for responses from this dependency.
	// 0 falls back to the gateway cache default.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *DependencyConfig) ApplyDefaults() {
	if c.Breaker.FailureThreshold <= 0 {
		c.Breaker.FailureThreshold = 5
	}
	if c.Breaker.ResetTimeout <= 0 {
		c.Breaker.ResetTimeout = 30 * time.Second
	}
	if c.RateLimit.Limit <= 0 {
		c.RateLimit.Limit = 60
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = time.Second
	}
}

// Validate checks that the configuration is valid.
func (c *DependencyConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("gate: invalid dependency config %q: %w", c.Name, err)
	}
	return nil
}
