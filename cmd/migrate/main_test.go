package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"mei-storefront/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS(t *testing.T) {
	t.Run("Embedded", func(t *testing.T) {
		files, err := fsGlob(migrationsFS(""))
		require.NoError(t, err)
		assert.NotEmpty(t, files)
	})

	t.Run("Directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101_a.sql"), []byte("-- +migrate Up\nSELECT 1;"), 0o644))

		files, err := fsGlob(migrationsFS(dir))
		require.NoError(t, err)
		assert.Equal(t, []string{"20250101_a.sql"}, files)
	})
}

func TestRun(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	migrations := fstest.MapFS{
		"20250101_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;\n")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("20250101_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE test").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("20250101_init.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, run(context.Background(), conn, db.ModeUp, migrations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UnknownMode(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(context.Background(), conn, "sideways", fstest.MapFS{})
	assert.ErrorIs(t, err, db.ErrUnknownMode)
}

func fsGlob(fsys fs.FS) ([]string, error) {
	return fs.Glob(fsys, "*.sql")
}
