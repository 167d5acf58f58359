package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a pool configuration: database targets (either the default
// target or every entry of the instance list), pool sizing and timeouts.
// It returns an error describing the first failed check.
func Validate(cfg *PoolConfig) error {
	if len(cfg.Instances) > 0 {
		for i := range cfg.Instances {
			if err := validateDatabase(&cfg.Instances[i]); err != nil {
				return fmt.Errorf("instance %d: %w", i, err)
			}
		}
	} else if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := validatePoolSizing(cfg); err != nil {
		return err
	}

	return validateTimeouts(cfg)
}

// validateDatabase checks a single database target: non-empty host, user and
// database name, a positive port, and a supported vendor.
func validateDatabase(cfg *DatabaseConfig) error {
	if cfg.Vendor != "" && cfg.Vendor != MySQL {
		return fmt.Errorf("unsupported vendor: %s", cfg.Vendor)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid database config for %q: %w", cfg.ConnectionString(), err)
	}
	return nil
}

func validatePoolSizing(cfg *PoolConfig) error {
	if cfg.MinConnections == 0 || cfg.MaxConnections == 0 {
		return fmt.Errorf("pool sizing must be positive: min=%d max=%d", cfg.MinConnections, cfg.MaxConnections)
	}
	if cfg.MinConnections > cfg.MaxConnections {
		return fmt.Errorf("min connections (%d) exceeds max connections (%d)", cfg.MinConnections, cfg.MaxConnections)
	}
	if cfg.InitConnections > cfg.MaxConnections {
		return fmt.Errorf("init connections (%d) exceeds max connections (%d)", cfg.InitConnections, cfg.MaxConnections)
	}
	return nil
}

func validateTimeouts(cfg *PoolConfig) error {
	if cfg.AcquireTimeout <= 0 {
		return fmt.Errorf("acquire timeout must be positive, got %s", cfg.AcquireTimeout)
	}
	if cfg.MaxIdleTime <= 0 {
		return fmt.Errorf("max idle time must be positive, got %s", cfg.MaxIdleTime)
	}
	if cfg.HealthCheckPeriod <= 0 {
		return fmt.Errorf("health check period must be positive, got %s", cfg.HealthCheckPeriod)
	}
	return nil
}
