package mysql

import "errors"

// Sentinel errors for connection and cursor failures. Operation errors wrap
// these, so callers classify them with errors.Is.
var (
	// ErrInitFailed is returned by New when the driver handle cannot be
	// allocated. The connection object is unusable after this.
	ErrInitFailed = errors.New("failed to initialize connection handle")

	// ErrNotInitialized is returned when an operation finds no allocated
	// handle, e.g. after Close released it.
	ErrNotInitialized = errors.New("connection handle not initialized")

	// ErrNotConnected is returned by operations that require an established
	// session while none exists.
	ErrNotConnected = errors.New("connection not established")

	// ErrStatementFailed is returned when the server rejects or fails a
	// submitted statement.
	ErrStatementFailed = errors.New("statement execution failed")

	// ErrResultSet is returned when a result-producing statement succeeded
	// but its result set could not be materialized.
	ErrResultSet = errors.New("failed to store query result")

	// ErrNoResultSet is returned by row-oriented cursor operations on the
	// outcome of a non-result statement.
	ErrNoResultSet = errors.New("statement produced no result set")

	// ErrNoCurrentRow is returned by field accessors before Next has been
	// called, or after Reset.
	ErrNoCurrentRow = errors.New("no current row, call Next first")

	// ErrFieldIndex is returned when a field index is out of range.
	ErrFieldIndex = errors.New("field index out of range")

	// ErrFieldNotFound is returned when a field name does not occur in the
	// result set.
	ErrFieldNotFound = errors.New("field name not found")
)

// notConnectedMsg is the LastError sentinel for an unconnected handle.
const notConnectedMsg = "MySQL connection not established"
