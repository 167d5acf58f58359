package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables this loader consumes,
// e.g. MYSQLCONN_DATABASE__HOST overrides database.host.
const envPrefix = "MYSQLCONN_"

// Load builds a pool configuration from three sources, lowest priority first:
// package defaults, the YAML file at path (skipped when path is empty), and
// environment variables. The result is validated before being returned.
func Load(path string) (*PoolConfig, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// MYSQLCONN_DATABASE__HOST -> database.host; single underscores
			// stay literal so keys like min_connections survive.
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := NewPoolConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"database.vendor": MySQL,
		"database.port":   DefaultPort,
		"database.weight": 1,

		"min_connections":  5,
		"max_connections":  20,
		"init_connections": 5,

		"acquire_timeout":     "5s",
		"max_idle_time":       "10m",
		"health_check_period": "30s",

		"reconnect_interval": "1s",
		"reconnect_attempts": 3,

		"log_queries":             false,
		"enable_performance_stat": true,

		"log.level":  "info",
		"log.pretty": false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}
