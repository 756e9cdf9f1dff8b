package testcaseversions

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testCaseVersionStore struct {
	db     core.DB
	logger lumber.Logger
}

const (
	maxRetries = 3
	delay      = 200 * time.Millisecond
	maxJitter  = 100 * time.Millisecond
	errMsg     = "failed to perform transaction in test_case_version store"
)

// New returns a new TestCaseVersionStore.
func New(db core.DB, logger lumber.Logger) core.TestCaseVersionStore {
	return &testCaseVersionStore{db: db, logger: logger}
}

// Create inserts a new version for the test case. The version number is
// assigned inside the transaction as one more than the current maximum,
// so concurrent creates never share a number.
func (s *testCaseVersionStore) Create(ctx context.Context, version *core.TestCaseVersion) (int64, error) {
	var id int64
	err := s.db.ExecuteTransactionWithRetry(ctx, maxRetries, delay, maxJitter, errMsg,
		func(tx *sqlx.Tx) error {
			row := tx.QueryRowxContext(ctx, nextVersionQuery, version.TestCaseID)
			if err := row.Scan(&version.Version); err != nil {
				return errs.SQLError(err)
			}
			result, err := tx.NamedExecContext(ctx, insertQuery, version)
			if err != nil {
				return errs.SQLError(err)
			}
			id, err = result.LastInsertId()
			return err
		})
	return id, err
}

func (s *testCaseVersionStore) Find(ctx context.Context, id int64) (*core.TestCaseVersion, error) {
	version := new(core.TestCaseVersion)
	return version, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(version); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// FindByTestCase returns all versions of a test case, most recent first.
func (s *testCaseVersionStore) FindByTestCase(ctx context.Context, testCaseID int64) ([]*core.TestCaseVersion, error) {
	versions := make([]*core.TestCaseVersion, 0)
	return versions, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, findByTestCaseQuery,
			map[string]interface{}{"test_case_id": testCaseID})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			v := new(core.TestCaseVersion)
			if err = rows.StructScan(v); err != nil {
				return errs.SQLError(err)
			}
			versions = append(versions, v)
		}
		if len(versions) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testCaseVersionStore) FindLatest(ctx context.Context, testCaseID int64) (*core.TestCaseVersion, error) {
	version := new(core.TestCaseVersion)
	return version, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findLatestQuery, testCaseID)
		if err := row.StructScan(version); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// Update changes the descriptive fields only. The version number and the
// test case binding never change once the row exists.
func (s *testCaseVersionStore) Update(ctx context.Context, version *core.TestCaseVersion) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, version)
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

func (s *testCaseVersionStore) Delete(ctx context.Context, id int64) error {
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

const nextVersionQuery = `
SELECT
	COALESCE(MAX(version), 0) + 1
FROM
	test_case_version
WHERE
	test_case_id = ?
FOR UPDATE`

const insertQuery = `
INSERT
	INTO
	test_case_version(
		test_case_id,
		created_by,
		release_ready,
		version,
		name,
		description,
		steps,
		expected_result,
		created_at
	)
VALUES (
	:test_case_id,
	:created_by,
	:release_ready,
	:version,
	:name,
	:description,
	:steps,
	:expected_result,
	:created_at
)`

const findQuery = `
SELECT
	id,
	test_case_id,
	created_by,
	release_ready,
	version,
	name,
	description,
	steps,
	expected_result,
	created_at
FROM
	test_case_version
WHERE
	id = ?`

const findByTestCaseQuery = `
SELECT
	id,
	test_case_id,
	created_by,
	release_ready,
	version,
	name,
	description,
	steps,
	expected_result,
	created_at
FROM
	test_case_version
WHERE
	test_case_id = :test_case_id
ORDER BY id DESC`

const findLatestQuery = `
SELECT
	id,
	test_case_id,
	created_by,
	release_ready,
	version,
	name,
	description,
	steps,
	expected_result,
	created_at
FROM
	test_case_version
WHERE
	test_case_id = ?
ORDER BY id DESC
LIMIT 1`

const updateQuery = `
UPDATE
	test_case_version
SET
	release_ready = :release_ready,
	name = :name,
	description = :description,
	steps = :steps,
	expected_result = :expected_result
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	test_case_version
WHERE
	id = ?`
