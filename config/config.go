// Package config holds the value objects consumed by the connection layer and
// the pool manager: per-instance database settings and pool-wide sizing,
// timeout and reconnect parameters. Configuration is plain data; it is
// validated once at load time and never mutated by the core.
package config

import (
	"fmt"
	"time"
)

// Vendor identifiers accepted by the connection factory.
const (
	MySQL = "mysql"
)

// DefaultPort is the conventional MySQL server port.
const DefaultPort = 3306

// Default session options applied when a DatabaseConfig leaves them unset.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultCharset        = "utf8mb4"
)

// DatabaseConfig describes one database instance. Weight is only consulted by
// the pool manager when several instances are load-balanced.
type DatabaseConfig struct {
	Vendor   string `koanf:"vendor"`
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"gt=0"`
	Username string `koanf:"username" validate:"required"`
	// Password may legitimately be empty.
	Password string `koanf:"password"`
	Database string `koanf:"database" validate:"required"`
	Weight   uint   `koanf:"weight"`

	// Session options fixed at handle initialization. Zero values fall back
	// to the package defaults.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	Charset        string        `koanf:"charset"`
}

// NewDatabaseConfig creates an instance config with the conventional port and
// weight. Host, user and database are required for the result to validate.
func NewDatabaseConfig(host, username, password, database string) DatabaseConfig {
	return DatabaseConfig{
		Vendor:   MySQL,
		Host:     host,
		Port:     DefaultPort,
		Username: username,
		Password: password,
		Database: database,
		Weight:   1,
	}
}

// ConnectionString renders the target for log correlation. It deliberately
// omits the password.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Database)
}

// Equal reports whether two configs address the same database session target.
// Weight and session options do not participate: same host, port, user and
// database means same target.
func (c *DatabaseConfig) Equal(other *DatabaseConfig) bool {
	return c.Host == other.Host &&
		c.Port == other.Port &&
		c.Username == other.Username &&
		c.Database == other.Database
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// PoolConfig carries everything the pool manager needs: the default database
// target (single-instance mode), an optional weighted instance list
// (load-balanced mode), pool sizing, timeouts and reconnect policy.
type PoolConfig struct {
	Database  DatabaseConfig   `koanf:"database"`
	Instances []DatabaseConfig `koanf:"instances"`

	MinConnections  uint `koanf:"min_connections" validate:"gt=0"`
	MaxConnections  uint `koanf:"max_connections" validate:"gt=0"`
	InitConnections uint `koanf:"init_connections"`

	// AcquireTimeout bounds how long a caller waits for a free connection.
	AcquireTimeout    time.Duration `koanf:"acquire_timeout"`
	MaxIdleTime       time.Duration `koanf:"max_idle_time"`
	HealthCheckPeriod time.Duration `koanf:"health_check_period"`

	ReconnectInterval time.Duration `koanf:"reconnect_interval"`
	ReconnectAttempts uint          `koanf:"reconnect_attempts"`

	LogQueries            bool `koanf:"log_queries"`
	EnablePerformanceStat bool `koanf:"enable_performance_stat"`

	Log LogConfig `koanf:"log"`
}

// NewPoolConfig returns a pool configuration with defaults suitable for most
// deployments. The database target still has to be filled in.
func NewPoolConfig() PoolConfig {
	return PoolConfig{
		Database:              DatabaseConfig{Vendor: MySQL, Port: DefaultPort, Weight: 1},
		MinConnections:        5,
		MaxConnections:        20,
		InitConnections:       5,
		AcquireTimeout:        5 * time.Second,
		MaxIdleTime:           10 * time.Minute,
		HealthCheckPeriod:     30 * time.Second,
		ReconnectInterval:     time.Second,
		ReconnectAttempts:     3,
		LogQueries:            false,
		EnablePerformanceStat: true,
		Log:                   LogConfig{Level: "info"},
	}
}

// AddInstance appends a database instance for load-balanced mode. Invalid
// instances are rejected.
func (c *PoolConfig) AddInstance(db DatabaseConfig) error {
	if err := validateDatabase(&db); err != nil {
		return fmt.Errorf("instance config: %w", err)
	}
	c.Instances = append(c.Instances, db)
	return nil
}

// InstanceCount returns the number of database targets the pool will manage.
func (c *PoolConfig) InstanceCount() int {
	if len(c.Instances) == 0 {
		return 1
	}
	return len(c.Instances)
}

// SetConnectionLimits adjusts pool sizing. When init is zero it snaps to min;
// otherwise it is capped at max.
func (c *PoolConfig) SetConnectionLimits(minConns, maxConns, initConns uint) error {
	if minConns == 0 || maxConns == 0 || minConns > maxConns {
		return fmt.Errorf("invalid connection limits: min=%d max=%d", minConns, maxConns)
	}
	c.MinConnections = minConns
	c.MaxConnections = maxConns
	if initConns == 0 {
		c.InitConnections = minConns
	} else {
		c.InitConnections = min(initConns, maxConns)
	}
	return nil
}

// SetTimeouts adjusts the acquire timeout, idle cutoff and health-check
// period. All three must be positive.
func (c *PoolConfig) SetTimeouts(acquire, idle, healthCheck time.Duration) error {
	if acquire <= 0 || idle <= 0 || healthCheck <= 0 {
		return fmt.Errorf("timeouts must be positive: acquire=%s idle=%s health=%s", acquire, idle, healthCheck)
	}
	c.AcquireTimeout = acquire
	c.MaxIdleTime = idle
	c.HealthCheckPeriod = healthCheck
	return nil
}

// Summary renders a short description of the pool configuration for logs.
func (c *PoolConfig) Summary() string {
	return fmt.Sprintf("PoolConfig{connections:[%d, %d], acquire_timeout:%s, databases:%d}",
		c.MinConnections, c.MaxConnections, c.AcquireTimeout, c.InstanceCount())
}
