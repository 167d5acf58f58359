// Package mysql implements the MySQL connection and cursor. A Connection
// wraps exactly one session to a MySQL server behind a mutex so that multiple
// goroutines can share it safely; a Cursor owns the materialized outcome of
// one executed statement.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/dbforge/mysqlconn/config"
	"github.com/dbforge/mysqlconn/database/types"
	"github.com/dbforge/mysqlconn/logger"
)

// openHandle allocates the driver handle for cfg. No network I/O happens
// here; database/sql dials lazily. Overridable in tests.
var openHandle = func(cfg *mysqldrv.Config) (*sql.DB, error) {
	connector, err := mysqldrv.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// Connection is one session to a MySQL server. All mutable state (the handle,
// the session, the connected flag, the activity timestamp and the last
// recorded driver error) is guarded by mu. Public methods acquire mu exactly
// once and delegate to *Locked helpers, which assume the caller holds it;
// no public method calls another lock-taking public method.
type Connection struct {
	id  string
	cfg *config.DatabaseConfig
	log logger.Logger

	creationTime int64

	mu             sync.Mutex
	db             *sql.DB
	session        *sql.Conn
	connected      bool
	lastActiveTime int64
	lastErrText    string
	lastErrCode    uint16
}

var _ types.Conn = (*Connection)(nil)

// New allocates a connection handle for cfg. The handle is configured with
// the connect/read/write timeouts and charset from cfg (falling back to the
// package defaults) but no network session is established; call Connect for
// that. Allocation failure is fatal and returns ErrInitFailed.
func New(cfg *config.DatabaseConfig, log logger.Logger) (*Connection, error) {
	now := time.Now().UnixMilli()
	c := &Connection{
		id:             uuid.NewString(),
		cfg:            cfg,
		creationTime:   now,
		lastActiveTime: now,
	}
	c.log = log.WithFields(map[string]any{"conn_id": c.id})

	c.log.Info().Str("target", cfg.ConnectionString()).Msg("creating MySQL connection")

	db, err := openHandle(c.driverConfig())
	if err != nil {
		c.log.Error().Err(err).Msg("failed to initialize MySQL connection handle")
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	// Pin the pool underneath to a single physical session; this object is
	// the pool's unit, not a pool itself.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	c.db = db

	c.log.Info().Msg("MySQL connection handle initialized")
	return c, nil
}

// driverConfig translates cfg into driver options. Bad secondary options
// (charset, timeouts) degrade to the defaults with a warning; they never
// abort construction.
func (c *Connection) driverConfig() *mysqldrv.Config {
	cfg := c.cfg

	port := cfg.Port
	if port <= 0 {
		c.log.Warn().Int("port", cfg.Port).Msg("invalid port, using default")
		port = config.DefaultPort
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = config.DefaultConnectTimeout
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = config.DefaultReadTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = config.DefaultWriteTimeout
	}

	charset := cfg.Charset
	if charset == "" {
		charset = config.DefaultCharset
	}

	d := mysqldrv.NewConfig()
	d.Net = "tcp"
	d.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	d.User = cfg.Username
	d.Passwd = cfg.Password
	d.DBName = cfg.Database
	d.Timeout = connectTimeout
	d.ReadTimeout = readTimeout
	d.WriteTimeout = writeTimeout
	d.Params = map[string]string{"charset": charset}
	return d
}

// Connect establishes the network session. Idempotent: an already-connected
// instance logs and returns nil without touching the live session, since
// re-dialing would silently drop it and strand in-flight work.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.log.Warn().Msg("session already established")
		return nil
	}
	if c.db == nil {
		c.log.Error().Msg("connection handle not initialized")
		return ErrNotInitialized
	}

	c.log.Info().Str("target", c.cfg.ConnectionString()).Msg("connecting to MySQL server")

	session, err := c.db.Conn(ctx)
	if err != nil {
		c.recordErrLocked(err)
		c.log.Error().Err(err).Msg("failed to connect to MySQL server")
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	if err := session.PingContext(ctx); err != nil {
		c.recordErrLocked(err)
		c.log.Error().Err(err).Msg("failed to connect to MySQL server")
		_ = session.Close()
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	c.session = session
	c.connected = true
	c.touchLocked()
	c.log.Info().Msg("connected to MySQL server")
	return nil
}

// Close releases the session and the handle. Safe to call any number of
// times, including on a connection that never connected.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.session != nil {
		if err := c.session.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			firstErr = err
		}
		c.session = nil
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.db = nil
	}
	c.connected = false

	c.log.Info().Msg("MySQL connection closed")
	return firstErr
}

// IsValid probes the server. It fails fast when the handle is missing or no
// session is established, and otherwise issues a ping; a successful ping
// refreshes the activity timestamp.
func (c *Connection) IsValid(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked(ctx)
}

// validLocked is the liveness probe used by every state-changing call.
// Callers must hold mu; the public IsValid is never invoked internally, which
// would self-deadlock on the non-reentrant mutex.
func (c *Connection) validLocked(ctx context.Context) bool {
	if c.db == nil {
		c.log.Warn().Msg("connection handle not initialized")
		return false
	}
	if !c.connected || c.session == nil {
		c.log.Warn().Msg("not connected to MySQL server")
		return false
	}
	if err := c.session.PingContext(ctx); err != nil {
		c.recordErrLocked(err)
		c.log.Error().Err(err).Msg("connection validation failed")
		return false
	}
	c.touchLocked()
	return true
}

// ExecuteQuery submits result-producing statement text verbatim and returns
// a cursor over the fully materialized result set. A statement that produces
// no columns yields a cursor without a result set rather than an error.
func (c *Connection) ExecuteQuery(ctx context.Context, statement string) (types.Cursor, error) {
	return c.execute(ctx, statement, true)
}

// ExecuteUpdate submits a non-result statement (INSERT/UPDATE/DELETE) and
// returns the affected-row count.
func (c *Connection) ExecuteUpdate(ctx context.Context, statement string) (uint64, error) {
	cursor, err := c.execute(ctx, statement, false)
	if err != nil {
		return 0, err
	}
	return cursor.AffectedRows(), nil
}

// execute is the single execution path for queries and updates. Statement
// text passes through unparsed; injection safety is the caller's concern,
// assisted by EscapeString.
func (c *Connection) execute(ctx context.Context, statement string, isQuery bool) (*Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind := "update"
	if isQuery {
		kind = "query"
	}

	if !c.validLocked(ctx) {
		c.log.Error().Str("kind", kind).Msg("statement rejected: connection not established")
		return nil, ErrNotConnected
	}

	c.log.Debug().Str("kind", kind).Str("statement", statement).Msg("executing statement")
	c.touchLocked()
	start := time.Now()

	if isQuery {
		rows, err := c.session.QueryContext(ctx, statement)
		if err != nil {
			c.recordErrLocked(err)
			c.log.Error().Err(err).Str("statement", statement).Msg("failed to execute query")
			return nil, fmt.Errorf("%w: %v", ErrStatementFailed, err)
		}
		cursor, err := newCursor(rows, c.log)
		if err != nil {
			c.recordErrLocked(err)
			c.log.Error().Err(err).Str("statement", statement).Msg("failed to store query result")
			return nil, fmt.Errorf("%w: %v", ErrResultSet, err)
		}
		c.log.Debug().Dur("elapsed", time.Since(start)).Uint64("rows", cursor.RowCount()).Msg("query complete")
		return cursor, nil
	}

	result, err := c.session.ExecContext(ctx, statement)
	if err != nil {
		c.recordErrLocked(err)
		c.log.Error().Err(err).Str("statement", statement).Msg("failed to execute update")
		return nil, fmt.Errorf("%w: %v", ErrStatementFailed, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		// The driver reports the count with every OK packet; a failure here
		// degrades to zero rather than failing the whole statement.
		c.log.Warn().Err(err).Msg("affected-row count unavailable")
		affected = 0
	}
	c.log.Debug().Dur("elapsed", time.Since(start)).Int64("affected", affected).Msg("update complete")
	return newCountCursor(uint64(affected), c.log), nil
}

// BeginTransaction opens a transaction on the session.
func (c *Connection) BeginTransaction(ctx context.Context) error {
	return c.control(ctx, "START TRANSACTION")
}

// Commit commits the open transaction. Whether a transaction is actually
// open is the server's call; a rejected COMMIT surfaces as an error.
func (c *Connection) Commit(ctx context.Context) error {
	return c.control(ctx, "COMMIT")
}

// Rollback rolls back the open transaction.
func (c *Connection) Rollback(ctx context.Context) error {
	return c.control(ctx, "ROLLBACK")
}

// control submits a transaction-control statement. These use a plain
// handle-and-flag check rather than a server ping: the statement itself is
// the round trip.
func (c *Connection) control(ctx context.Context, statement string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil || !c.connected || c.session == nil {
		c.log.Error().Str("statement", statement).Msg("transaction control rejected: connection not established")
		return ErrNotConnected
	}

	c.log.Debug().Str("statement", statement).Msg("transaction control")

	if _, err := c.session.ExecContext(ctx, statement); err != nil {
		c.recordErrLocked(err)
		c.log.Error().Err(err).Str("statement", statement).Msg("transaction control failed")
		return fmt.Errorf("%w: %v", ErrStatementFailed, err)
	}

	c.touchLocked()
	return nil
}

// LastError returns the text of the most recent driver error recorded on the
// handle, or a sentinel message when no session is established. With several
// goroutines sharing the connection the text reflects the latest operation on
// the handle, not necessarily the caller's own.
func (c *Connection) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil || !c.connected {
		return notConnectedMsg
	}
	return c.lastErrText
}

// LastErrorCode returns the MySQL error number of the most recent driver
// error, or 0 when no session is established or the error carried no number.
func (c *Connection) LastErrorCode() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil || !c.connected {
		return 0
	}
	return c.lastErrCode
}

// recordErrLocked captures the driver error text and code. Caller holds mu.
func (c *Connection) recordErrLocked(err error) {
	c.lastErrText = err.Error()
	c.lastErrCode = 0

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		c.lastErrText = myErr.Message
		c.lastErrCode = myErr.Number
	}
}

// EscapeString escapes a literal fragment for inclusion in statement text.
// The caller still wraps the result in quote characters. An established
// session is required because escaping correctness is charset-dependent.
func (c *Connection) EscapeString(s string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil || !c.connected {
		c.log.Error().Msg("cannot escape string: connection not established")
		return "", ErrNotConnected
	}
	return escapeString(s), nil
}

// ID returns the immutable connection identifier used for log correlation.
func (c *Connection) ID() string {
	return c.id
}

// CreationTime returns the construction timestamp in millisecond epoch.
// Immutable, so no lock.
func (c *Connection) CreationTime() int64 {
	return c.creationTime
}

// LastActiveTime returns the timestamp of the last successful operation in
// millisecond epoch. Concurrently written, so read under the lock.
func (c *Connection) LastActiveTime() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActiveTime
}

// touchLocked refreshes the activity timestamp with a raw write. Caller
// holds mu.
func (c *Connection) touchLocked() {
	c.lastActiveTime = time.Now().UnixMilli()
}
