package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FINCH_CONFIG is set
//  3. env (prefix FINCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FINCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FINCH_ADDR, FINCH_CONSUMER_KEY, ...
	// Keys map to the koanf tags with underscores preserved.
	envProvider := env.Provider("FINCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "finch_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueCapacity <= 0:
		return fmt.Errorf("%w: queue_capacity must be positive", ErrInvalidConfig)
	case c.TickIntervalMS <= 0:
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	case c.LeaseTTLMin <= 0:
		return fmt.Errorf("%w: lease_ttl_min must be positive", ErrInvalidConfig)
	case c.StatusTTLMin <= 0:
		return fmt.Errorf("%w: status_ttl_min must be positive", ErrInvalidConfig)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max_attempts must be positive", ErrInvalidConfig)
	}
	return nil
}
