package cache

import (
	"fmt"
	"time"
)

const (
	defaultMaxSize = 1024
	defaultTTL     = time.Minute
)

// Config configures a Store.
type Config struct {
	// Name identifies this store for metrics/logging.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxSize is the maximum number of entries held; the least-recently-used
	// entry is evicted at capacity. Defaults to 1024.
	MaxSize int `yaml:"max_size" mapstructure:"max_size" validate:"gte=0"`
	// DefaultTTL is applied when Set is called with a non-positive TTL.
	// Defaults to 1m.
	DefaultTTL time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`

	// OnHit is called on every fresh read.
	OnHit func(name, key string) `yaml:"-" mapstructure:"-"`
	// OnMiss is called when a key is absent or expired.
	OnMiss func(name, key string) `yaml:"-" mapstructure:"-"`
	// OnEvict is called when capacity pressure removes an entry.
	OnEvict func(name, key string) `yaml:"-" mapstructure:"-"`
	// OnExpire is called when a stale entry is removed on read.
	OnExpire func(name, key string) `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = defaultMaxSize
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = defaultTTL
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("cache: max_size must be positive")
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("cache: default_ttl must be positive")
	}
	return nil
}
