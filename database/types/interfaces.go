// Package types declares the vendor-neutral contracts of the connection
// layer. It exists so vendor packages and the factory can share these
// definitions without import cycles.
package types

import "context"

// Vendor identifiers for the supported drivers.
const (
	MySQL = "mysql"
)

// Conn is one thread-safe session to a database server. Implementations
// serialize all operations internally, so a single Conn may be shared across
// goroutines; statements from concurrent callers execute in lock-acquisition
// order with no interleaving at the driver level.
//
// A Cursor returned by ExecuteQuery must be fully consumed or abandoned
// before the next statement is issued on the same Conn.
type Conn interface {
	// Connect establishes the network session. It is idempotent: calling it
	// on an already-connected Conn succeeds without touching the session.
	Connect(ctx context.Context) error
	// Close releases the session and the underlying handle. Safe to call any
	// number of times.
	Close() error
	// IsValid probes the server and reports whether the session is usable.
	IsValid(ctx context.Context) bool

	// ExecuteQuery submits result-producing statement text verbatim and
	// returns a cursor over the fully materialized result set.
	ExecuteQuery(ctx context.Context, statement string) (Cursor, error)
	// ExecuteUpdate submits a non-result statement and returns the number of
	// affected rows.
	ExecuteUpdate(ctx context.Context, statement string) (uint64, error)

	// Transaction control. Legal ordering is enforced by the server, not
	// locally; a control statement the server rejects surfaces as an error.
	BeginTransaction(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// LastError and LastErrorCode report the most recent driver error
	// recorded on the handle, or a sentinel when the Conn is not connected.
	LastError() string
	LastErrorCode() uint16

	// EscapeString escapes a literal fragment for inclusion in statement
	// text. The caller still wraps the result in quote characters.
	EscapeString(s string) (string, error)

	ID() string
	CreationTime() int64
	LastActiveTime() int64
}

// Cursor navigates the outcome of one executed statement: either a
// materialized result set or the affected-row count of a non-result
// statement. Cursors are not safe for concurrent use.
type Cursor interface {
	// Next advances to the next row. It returns false on a cursor without a
	// result set and keeps returning false once the rows are exhausted.
	Next() bool
	// Reset rewinds to before the first row; Next must be called again
	// before field access.
	Reset() bool

	FieldCount() int
	RowCount() uint64
	AffectedRows() uint64
	FieldNames() []string
	// FieldLengths returns the byte length of each field in the current row,
	// or nil when no current row exists.
	FieldLengths() []int
	// IsEmpty reports a present but zero-row result set, which is distinct
	// from HasResultSet returning false.
	IsEmpty() bool
	HasResultSet() bool

	// Typed access to the current row by column index. NULL values yield the
	// type's zero value; IsNull distinguishes NULL from a genuine zero.
	GetString(index int) (string, error)
	GetInt(index int) (int, error)
	GetInt64(index int) (int64, error)
	GetFloat64(index int) (float64, error)
	IsNull(index int) (bool, error)

	// Typed access by column name. Duplicate names resolve to the first
	// matching column.
	GetStringByName(name string) (string, error)
	GetIntByName(name string) (int, error)
	GetInt64ByName(name string) (int64, error)
	GetFloat64ByName(name string) (float64, error)
	IsNullByName(name string) (bool, error)
}
