package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPoolConfig() PoolConfig {
	cfg := NewPoolConfig()
	cfg.Database = NewDatabaseConfig("localhost", "app", "secret", "appdb")
	return cfg
}

func TestNewDatabaseConfigDefaults(t *testing.T) {
	cfg := NewDatabaseConfig("db1.internal", "svc", "", "orders")

	assert.Equal(t, MySQL, cfg.Vendor)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, uint(1), cfg.Weight)
	assert.Equal(t, "svc@db1.internal:3306/orders", cfg.ConnectionString())
}

func TestDatabaseConfigEqualIgnoresWeightAndPassword(t *testing.T) {
	a := NewDatabaseConfig("h", "u", "p1", "d")
	b := NewDatabaseConfig("h", "u", "p2", "d")
	b.Weight = 9

	assert.True(t, a.Equal(&b))

	b.Database = "other"
	assert.False(t, a.Equal(&b))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validPoolConfig()
	require.NoError(t, Validate(&cfg))
}

func TestValidateRejectsBadDatabase(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"empty host", func(c *PoolConfig) { c.Database.Host = "" }},
		{"empty user", func(c *PoolConfig) { c.Database.Username = "" }},
		{"empty database", func(c *PoolConfig) { c.Database.Database = "" }},
		{"zero port", func(c *PoolConfig) { c.Database.Port = 0 }},
		{"unknown vendor", func(c *PoolConfig) { c.Database.Vendor = "oracle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validPoolConfig()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestValidateRejectsBadSizingAndTimeouts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"zero min", func(c *PoolConfig) { c.MinConnections = 0 }},
		{"min above max", func(c *PoolConfig) { c.MinConnections = 30 }},
		{"init above max", func(c *PoolConfig) { c.InitConnections = 99 }},
		{"zero acquire timeout", func(c *PoolConfig) { c.AcquireTimeout = 0 }},
		{"zero idle time", func(c *PoolConfig) { c.MaxIdleTime = 0 }},
		{"zero health period", func(c *PoolConfig) { c.HealthCheckPeriod = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validPoolConfig()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestValidateInstanceList(t *testing.T) {
	cfg := validPoolConfig()
	// With instances present the default target is not consulted.
	cfg.Database = DatabaseConfig{}
	require.NoError(t, cfg.AddInstance(NewDatabaseConfig("db1", "u", "p", "d")))
	require.NoError(t, cfg.AddInstance(NewDatabaseConfig("db2", "u", "p", "d")))

	assert.Equal(t, 2, cfg.InstanceCount())
	assert.NoError(t, Validate(&cfg))

	cfg.Instances[1].Host = ""
	assert.Error(t, Validate(&cfg))
}

func TestAddInstanceRejectsInvalid(t *testing.T) {
	cfg := validPoolConfig()
	err := cfg.AddInstance(DatabaseConfig{Host: "h"})
	assert.Error(t, err)
	assert.Empty(t, cfg.Instances)
}

func TestSetConnectionLimits(t *testing.T) {
	cfg := validPoolConfig()

	require.NoError(t, cfg.SetConnectionLimits(2, 10, 0))
	assert.Equal(t, uint(2), cfg.InitConnections)

	require.NoError(t, cfg.SetConnectionLimits(2, 10, 50))
	assert.Equal(t, uint(10), cfg.InitConnections)

	assert.Error(t, cfg.SetConnectionLimits(10, 2, 0))
	assert.Error(t, cfg.SetConnectionLimits(0, 2, 0))
}

func TestSetTimeouts(t *testing.T) {
	cfg := validPoolConfig()

	require.NoError(t, cfg.SetTimeouts(time.Second, time.Minute, 10*time.Second))
	assert.Equal(t, time.Second, cfg.AcquireTimeout)
	assert.Equal(t, time.Minute, cfg.MaxIdleTime)
	assert.Equal(t, 10*time.Second, cfg.HealthCheckPeriod)

	assert.Error(t, cfg.SetTimeouts(0, time.Minute, time.Second))
}

func TestSummary(t *testing.T) {
	cfg := validPoolConfig()
	s := cfg.Summary()

	assert.Contains(t, s, "[5, 20]")
	assert.Contains(t, s, "5s")
	assert.Contains(t, s, "databases:1")
	assert.NotContains(t, s, "secret")
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	yaml := `
database:
  host: db.internal
  username: app
  password: hunter2
  database: orders
max_connections: 40
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("MYSQLCONN_DATABASE__HOST", "db.override")
	t.Setenv("MYSQLCONN_MIN_CONNECTIONS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, DefaultPort, cfg.Database.Port)
	assert.Equal(t, uint(8), cfg.MinConnections)
	assert.Equal(t, uint(40), cfg.MaxConnections)
	assert.Equal(t, 10*time.Minute, cfg.MaxIdleTime)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	// Host is missing, so validation must fail.
	require.NoError(t, os.WriteFile(path, []byte("database:\n  username: app\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
