package testcaseversions

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})          {}
func (nopLogger) Infof(string, ...interface{})           {}
func (nopLogger) Warnf(string, ...interface{})           {}
func (nopLogger) Errorf(string, ...interface{})          {}
func (nopLogger) Fatalf(string, ...interface{})          {}
func (nopLogger) Panicf(string, ...interface{})          {}
func (nopLogger) WithFields(lumber.Fields) lumber.Logger { return nopLogger{} }

// mockDB satisfies core.DB over a sqlmock-backed connection.
type mockDB struct {
	conn *sqlx.DB
}

func (m *mockDB) Close() error { return m.conn.Close() }

func (m *mockDB) ExecuteTransactionWithRetry(ctx context.Context,
	maxRetries uint, delay, maxJitter time.Duration, errorMsg string,
	fn func(tx *sqlx.Tx) error) error {
	tx, err := m.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (m *mockDB) Execute(fn func(conn *sqlx.DB) error) error { return fn(m.conn) }

func newMockStore(t *testing.T) (core.TestCaseVersionStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	db := &mockDB{conn: sqlx.NewDb(conn, "sqlmock")}
	return New(db, nopLogger{}), mock
}

func expectCreate(mock sqlmock.Sqlmock, testCaseID, nextVersion, insertID int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`COALESCE\(MAX\(version\), 0\) \+ 1`).
		WithArgs(testCaseID).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(nextVersion))
	mock.ExpectExec("INSERT").
		WillReturnResult(sqlmock.NewResult(insertID, 1))
	mock.ExpectCommit()
}

func TestCreateAssignsVersionNumbers(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	first := &core.TestCaseVersion{TestCaseID: 7, CreatedBy: 3, Name: "login flow"}
	expectCreate(mock, 7, 1, 11)
	id, err := store.Create(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, 1, first.Version)

	second := &core.TestCaseVersion{TestCaseID: 7, CreatedBy: 3, Name: "login flow"}
	expectCreate(mock, 7, 2, 12)
	id, err = store.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 2, second.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`COALESCE\(MAX\(version\), 0\) \+ 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectExec("INSERT").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := store.Create(ctx, &core.TestCaseVersion{TestCaseID: 7, CreatedBy: 3, Name: "login flow"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
