package testcases

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testCaseStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new TestCaseStore.
func New(db core.DB, logger lumber.Logger) core.TestCaseStore {
	return &testCaseStore{db: db, logger: logger}
}

func (s *testCaseStore) Create(ctx context.Context, testCase *core.TestCase) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, testCase)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *testCaseStore) Find(ctx context.Context, id int64) (*core.TestCase, error) {
	testCase := new(core.TestCase)
	return testCase, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(testCase); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testCaseStore) List(ctx context.Context, scenarioID int64, offset, limit int) ([]*core.TestCase, error) {
	testCases := make([]*core.TestCase, 0)
	return testCases, s.db.Execute(func(db *sqlx.DB) error {
		args := map[string]interface{}{
			"scenario_id": scenarioID,
			"offset":      offset,
			"limit":       limit,
		}
		query := listQuery
		if scenarioID != 0 {
			query += " WHERE scenario_id = :scenario_id"
		}
		query += " ORDER BY id LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			tc := new(core.TestCase)
			if err = rows.StructScan(tc); err != nil {
				return errs.SQLError(err)
			}
			testCases = append(testCases, tc)
		}
		if len(testCases) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testCaseStore) Update(ctx context.Context, testCase *core.TestCase) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, testCase)
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

func (s *testCaseStore) Delete(ctx context.Context, id int64) error {
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
	test_case(
		scenario_id,
		status_set_id,
		created_at
	)
VALUES (
	:scenario_id,
	:status_set_id,
	:created_at
)`

const findQuery = `
SELECT
	id,
	scenario_id,
	status_set_id,
	created_at
FROM
	test_case
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	scenario_id,
	status_set_id,
	created_at
FROM
	test_case`

const updateQuery = `
UPDATE
	test_case
SET
	scenario_id = :scenario_id,
	status_set_id = :status_set_id
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	test_case
WHERE
	id = ?`
