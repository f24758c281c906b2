package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	st := NewSQLStore(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("session.token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("abc"))

		v, ok, err := st.Get(ctx, "session.token")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("session.token").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, ok, err := st.Get(ctx, "session.token")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs("session.token").
			WillReturnError(errors.New("database is locked"))

		_, _, err := st.Get(ctx, "session.token")
		assert.ErrorContains(t, err, "database is locked")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SetMany(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	st := NewSQLStore(db)
	ctx := context.Background()
	entries := map[string]string{"session.userId": "42", "session.token": "abc"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("session.token", "abc").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("session.userId", "42").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		assert.NoError(t, st.SetMany(ctx, entries))
	})

	t.Run("Rolls back on failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("session.token", "abc").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("session.userId", "42").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := st.SetMany(ctx, entries)
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("Invalid key issues no query", func(t *testing.T) {
		err := st.Set(ctx, "", "x")
		assert.ErrorIs(t, err, ErrKeyInvalid)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	st := NewSQLStore(db)

	mock.ExpectExec(`DELETE FROM kv_store WHERE key IN \(\?,\?\)`).
		WithArgs("session.userId", "session.token").
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, st.Delete(context.Background(), "session.userId", "session.token"))
	assert.NoError(t, st.Delete(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
