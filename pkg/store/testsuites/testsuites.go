package testsuites

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testSuiteStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new TestSuiteStore.
func New(db core.DB, logger lumber.Logger) core.TestSuiteStore {
	return &testSuiteStore{db: db, logger: logger}
}

func (s *testSuiteStore) Create(ctx context.Context, suite *core.TestSuite) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, suite)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *testSuiteStore) Find(ctx context.Context, id int64) (*core.TestSuite, error) {
	suite := new(core.TestSuite)
	return suite, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(suite); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testSuiteStore) List(ctx context.Context, offset, limit int) ([]*core.TestSuite, error) {
	suites := make([]*core.TestSuite, 0)
	return suites, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			ts := new(core.TestSuite)
			if err = rows.StructScan(ts); err != nil {
				return errs.SQLError(err)
			}
			suites = append(suites, ts)
		}
		if len(suites) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testSuiteStore) Update(ctx context.Context, suite *core.TestSuite) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, suite)
		if err != nil {
			return errs.SQLError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testSuiteStore) Delete(ctx context.Context, id int64) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.ExecContext(ctx, deleteQuery, id)
		if err != nil {
			return errs.SQLError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

const insertQuery = `
INSERT
	INTO
	test_suite(
		name
	)
VALUES (
	:name
)`

const findQuery = `
SELECT
	id,
	name
FROM
	test_suite
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	name
FROM
	test_suite
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	test_suite
SET
	name = :name
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	test_suite
WHERE
	id = ?`
