package suitcases

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocraft/dbr"
	"github.com/gocraft/dbr/dialect"
	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/utils"
)

type suitcaseStore struct {
	db     core.DB
	logger lumber.Logger
}

const insertQueryChunkSize = 1000

// New returns a new SuitcaseStore.
func New(db core.DB, logger lumber.Logger) core.SuitcaseStore {
	return &suitcaseStore{db: db, logger: logger}
}

func (s *suitcaseStore) Create(ctx context.Context, suitcase *core.Suitcase) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, suitcase)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *suitcaseStore) Find(ctx context.Context, id int64) (*core.Suitcase, error) {
	suitcase := new(core.Suitcase)
	return suitcase, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(suitcase); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// CreateBulk adds the test cases to the suite in insertion order,
// skipping pairs that already exist. Returns the number of rows added.
func (s *suitcaseStore) CreateBulk(ctx context.Context, testSuiteID int64, testCaseIDs []int64) (int64, error) {
	var added int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		return utils.Chunk(insertQueryChunkSize, len(testCaseIDs), func(start, end int) error {
			args := []interface{}{}
			placeholderGrps := []string{}
			for _, testCaseID := range testCaseIDs[start:end] {
				placeholderGrps = append(placeholderGrps, "(?,?)")
				args = append(args, testCaseID, testSuiteID)
			}
			interpolatedQuery, errI := dbr.InterpolateForDialect(
				fmt.Sprintf(insertBulkQuery, strings.Join(placeholderGrps, ",")), args, dialect.MySQL)
			if errI != nil {
				return errs.SQLError(errI)
			}
			result, err := db.ExecContext(ctx, interpolatedQuery)
			if err != nil {
				return errs.SQLError(err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			added += affected
			return nil
		})
	})
	return added, err
}

func (s *suitcaseStore) FindBySuite(ctx context.Context, testSuiteID int64) ([]*core.Suitcase, error) {
	suitcases := make([]*core.Suitcase, 0)
	return suitcases, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, findBySuiteQuery,
			map[string]interface{}{"test_suite_id": testSuiteID})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			sc := new(core.Suitcase)
			if err = rows.StructScan(sc); err != nil {
				return errs.SQLError(err)
			}
			suitcases = append(suitcases, sc)
		}
		return nil
	})
}

func (s *suitcaseStore) Delete(ctx context.Context, id int64) error {
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
	suitcase(
		test_case_id,
		test_suite_id
	)
VALUES (
	:test_case_id,
	:test_suite_id
)`

const insertBulkQuery = `
INSERT IGNORE
	INTO
	suitcase(
		test_case_id,
		test_suite_id
	)
VALUES %s`

const findQuery = `
SELECT
	id,
	test_case_id,
	test_suite_id
FROM
	suitcase
WHERE
	id = ?`

const findBySuiteQuery = `
SELECT
	id,
	test_case_id,
	test_suite_id
FROM
	suitcase
WHERE
	test_suite_id = :test_suite_id
ORDER BY id`

const deleteQuery = `
DELETE
FROM
	suitcase
WHERE
	id = ?`
