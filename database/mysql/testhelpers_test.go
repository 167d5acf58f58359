package mysql

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dbforge/mysqlconn/config"
	"github.com/dbforge/mysqlconn/logger"
)

// newTestLogger creates a disabled logger to keep test output quiet.
func newTestLogger() logger.Logger {
	return logger.New("disabled", false)
}

// newMockConnection builds a Connection over a sqlmock handle with ping
// monitoring enabled, in the allocated-but-unconnected state.
func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	cfg := config.NewDatabaseConfig("localhost", "tester", "secret", "testdb")
	now := time.Now().UnixMilli()
	c := &Connection{
		id:             "test-conn",
		cfg:            &cfg,
		log:            newTestLogger(),
		db:             db,
		creationTime:   now,
		lastActiveTime: now,
	}
	return c, mock
}

// newConnectedMockConnection additionally establishes the session.
func newConnectedMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()

	c, mock := newMockConnection(t)
	mock.ExpectPing()
	require.NoError(t, c.Connect(t.Context()))
	return c, mock
}

// queryCursor runs statement against the mock session and returns the
// resulting cursor. Each execution pings first (liveness check).
func queryCursor(t *testing.T, c *Connection, mock sqlmock.Sqlmock, statement string, rs *sqlmock.Rows) *Cursor {
	t.Helper()

	mock.ExpectPing()
	mock.ExpectQuery(statement).WillReturnRows(rs)
	cursor, err := c.execute(t.Context(), statement, true)
	require.NoError(t, err)
	return cursor
}
