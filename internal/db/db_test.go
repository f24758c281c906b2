package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Mock Driver for Success Test ---
// Lets sql.Open and db.Ping succeed without a real database file.

type mockDriver struct{ pingErr error }

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	return &mockConn{pingErr: m.pingErr}, nil
}

type mockConn struct{ pingErr error }

func (c *mockConn) Prepare(query string) (driver.Stmt, error) { return &mockStmt{}, nil }
func (c *mockConn) Close() error                              { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                 { return nil, nil }
func (c *mockConn) Ping(ctx context.Context) error            { return c.pingErr }

type mockStmt struct{}

func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

func init() {
	sql.Register("mock_driver_success", &mockDriver{})
	sql.Register("mock_driver_ping_fail", &mockDriver{pingErr: errors.New("disk I/O error")})
}

func TestOpen_Success(t *testing.T) {
	conn, err := openWithDriver(context.Background(), "mock_driver_success", "file:test.db")
	assert.NoError(t, err)
	assert.NotNil(t, conn)
}

func TestOpen_InvalidDriver(t *testing.T) {
	// "invalid_driver_name" is not registered, so sql.Open will return an error
	conn, err := openWithDriver(context.Background(), "invalid_driver_name", "")

	assert.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "failed to connect to DB")
}

func TestOpen_PingFailure(t *testing.T) {
	conn, err := openWithDriver(context.Background(), "mock_driver_ping_fail", "")

	assert.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "failed to ping DB")
}

func TestOpen_SQLite(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/storefront.db?_busy_timeout=5000"

	conn, err := Open(context.Background(), dsn)
	if !assert.NoError(t, err) {
		return
	}
	defer conn.Close()

	assert.NoError(t, Migrate(context.Background(), conn, Migrations(), ModeUp))

	var n int
	err = conn.QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&n)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
