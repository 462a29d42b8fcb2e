package store

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStoreWithMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS companion_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewSQLStore(sqlx.NewDb(db, "sqlmock"), nil)
	require.NoError(t, err)
	return store, mock
}

func TestSQLStoreGet(t *testing.T) {
	store, mock := newSQLStoreWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM companion_kv WHERE key = $1")).
		WithArgs("metadata").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"cacheVersion":"v1"}`))

	got, ok := store.Get("metadata")
	require.True(t, ok)
	assert.Equal(t, `{"cacheVersion":"v1"}`, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreGetMiss(t *testing.T) {
	store, mock := newSQLStoreWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM companion_kv WHERE key = $1")).
		WithArgs("metadata").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok := store.Get("metadata")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreSetUpserts(t *testing.T) {
	store, mock := newSQLStoreWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO companion_kv")).
		WithArgs("selectedCourse", "btech").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set("selectedCourse", "btech"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRemoveAndClear(t *testing.T) {
	store, mock := newSQLStoreWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM companion_kv WHERE key = $1")).
		WithArgs("selectedBatch").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM companion_kv")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Remove("selectedBatch"))
	require.NoError(t, store.Clear())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreKeys(t *testing.T) {
	store, mock := newSQLStoreWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM companion_kv WHERE key LIKE $1 ORDER BY key")).
		WithArgs("allClasses_%").
		WillReturnRows(sqlmock.NewRows([]string{"key"}).
			AddRow("allClasses_btech_3_1_a6").
			AddRow("allClasses_btech_3_1_b1"))

	keys := store.Keys("allClasses_")
	assert.Equal(t, []string{"allClasses_btech_3_1_a6", "allClasses_btech_3_1_b1"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
