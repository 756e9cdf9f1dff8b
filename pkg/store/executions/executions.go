package executions

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type executionStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new ExecutionStore.
func New(db core.DB, logger lumber.Logger) core.ExecutionStore {
	return &executionStore{db: db, logger: logger}
}

func (s *executionStore) Create(ctx context.Context, execution *core.Execution) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, execution)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *executionStore) Find(ctx context.Context, id int64) (*core.Execution, error) {
	execution := new(core.Execution)
	return execution, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(execution); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *executionStore) FindByRunAndVersion(ctx context.Context, runID, versionID int64) (*core.Execution, error) {
	execution := new(core.Execution)
	return execution, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findByRunAndVersionQuery, runID, versionID)
		if err := row.StructScan(execution); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *executionStore) List(ctx context.Context, filters *core.ExecutionFilters, offset, limit int) ([]*core.Execution, error) {
	executions := make([]*core.Execution, 0)
	return executions, s.db.Execute(func(db *sqlx.DB) error {
		query, args := buildFilterClauses(listQuery, filters)
		args["offset"] = offset
		args["limit"] = limit
		query += " ORDER BY id LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			e := new(core.Execution)
			if err = rows.StructScan(e); err != nil {
				return errs.SQLError(err)
			}
			executions = append(executions, e)
		}
		if len(executions) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *executionStore) ListByRun(ctx context.Context, runID int64) ([]*core.Execution, error) {
	executions := make([]*core.Execution, 0)
	return executions, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listByRunQuery,
			map[string]interface{}{"run_id": runID})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			e := new(core.Execution)
			if err = rows.StructScan(e); err != nil {
				return errs.SQLError(err)
			}
			executions = append(executions, e)
		}
		if len(executions) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *executionStore) UpdateOrder(ctx context.Context, id int64, order int) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, updateOrderQuery, order, id); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// UpdateStatus applies a status transition. The executed_at column keeps
// its first value and a transition that carries no result or attachment
// leaves the stored values alone.
func (s *executionStore) UpdateStatus(ctx context.Context, id int64, transition *core.StatusTransition, at time.Time) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.ExecContext(ctx, updateStatusQuery,
			transition.StatusID,
			transition.ActualResult,
			transition.AttachmentID,
			at,
			id)
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

func (s *executionStore) UpdateDevice(ctx context.Context, id, deviceID int64) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.ExecContext(ctx, updateDeviceQuery, deviceID, id)
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

func (s *executionStore) UpdateTester(ctx context.Context, id, testerID int64) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.ExecContext(ctx, updateTesterQuery, testerID, id)
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

func (s *executionStore) Stats(ctx context.Context, filters *core.ExecutionFilters) (*core.ExecutionStats, error) {
	stats := new(core.ExecutionStats)
	return stats, s.db.Execute(func(db *sqlx.DB) error {
		query, args := buildFilterClauses(statsQuery, filters)
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		if !rows.Next() {
			return errs.ErrRowsNotFound
		}
		if err = rows.StructScan(stats); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *executionStore) Delete(ctx context.Context, id int64) error {
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

// buildFilterClauses appends a WHERE clause per set filter.
func buildFilterClauses(query string, filters *core.ExecutionFilters) (string, map[string]interface{}) {
	args := map[string]interface{}{}
	if filters == nil {
		return query, args
	}
	if filters.RunID != 0 {
		query += " AND e.run_id = :run_id"
		args["run_id"] = filters.RunID
	}
	if filters.DeviceID != 0 {
		query += " AND e.device_id = :device_id"
		args["device_id"] = filters.DeviceID
	}
	if filters.TesterID != 0 {
		query += " AND e.executed_by = :executed_by"
		args["executed_by"] = filters.TesterID
	}
	if filters.StatusID != 0 {
		query += " AND e.status_id = :status_id"
		args["status_id"] = filters.StatusID
	}
	if filters.TestCaseVersionID != 0 {
		query += " AND e.test_case_version_id = :test_case_version_id"
		args["test_case_version_id"] = filters.TestCaseVersionID
	}
	if !filters.ExecutedAfter.IsZero() {
		query += " AND e.executed_at >= :min_executed_at"
		args["min_executed_at"] = filters.ExecutedAfter
	}
	if !filters.ExecutedBefore.IsZero() {
		query += " AND e.executed_at <= :max_executed_at"
		args["max_executed_at"] = filters.ExecutedBefore
	}
	return query, args
}

const insertQuery = `
INSERT
	INTO
	execution(
		device_id,
		run_id,
		test_case_version_id,
		executed_by,
		status_id,
		attachment_id,
		actual_result,
		executed_at,
		execution_order
	)
VALUES (
	:device_id,
	:run_id,
	:test_case_version_id,
	:executed_by,
	:status_id,
	:attachment_id,
	:actual_result,
	:executed_at,
	:execution_order
)`

const findQuery = `
SELECT
	id,
	device_id,
	run_id,
	test_case_version_id,
	executed_by,
	status_id,
	attachment_id,
	actual_result,
	executed_at,
	execution_order
FROM
	execution
WHERE
	id = ?`

const findByRunAndVersionQuery = `
SELECT
	id,
	device_id,
	run_id,
	test_case_version_id,
	executed_by,
	status_id,
	attachment_id,
	actual_result,
	executed_at,
	execution_order
FROM
	execution
WHERE
	run_id = ?
	AND test_case_version_id = ?`

const listQuery = `
SELECT
	e.id,
	e.device_id,
	e.run_id,
	e.test_case_version_id,
	e.executed_by,
	e.status_id,
	e.attachment_id,
	e.actual_result,
	e.executed_at,
	e.execution_order
FROM
	execution e
WHERE
	1 = 1`

const listByRunQuery = `
SELECT
	id,
	device_id,
	run_id,
	test_case_version_id,
	executed_by,
	status_id,
	attachment_id,
	actual_result,
	executed_at,
	execution_order
FROM
	execution
WHERE
	run_id = :run_id
ORDER BY execution_order`

const updateOrderQuery = `
UPDATE
	execution
SET
	execution_order = ?
WHERE
	id = ?`

const updateStatusQuery = `
UPDATE
	execution
SET
	status_id = ?,
	actual_result = COALESCE(?, actual_result),
	attachment_id = COALESCE(?, attachment_id),
	executed_at = COALESCE(executed_at, ?)
WHERE
	id = ?`

const updateDeviceQuery = `
UPDATE
	execution
SET
	device_id = ?
WHERE
	id = ?`

const updateTesterQuery = `
UPDATE
	execution
SET
	executed_by = ?
WHERE
	id = ?`

const statsQuery = `
SELECT
	COUNT(e.id) total,
	COUNT(CASE WHEN st.role = 'not_run' THEN e.id END) not_run,
	COUNT(CASE WHEN st.role = 'in_progress' THEN e.id END) in_progress,
	COUNT(CASE WHEN st.role = 'passed' THEN e.id END) passed,
	COUNT(CASE WHEN st.role = 'failed' THEN e.id END) failed,
	COUNT(CASE WHEN st.role = 'blocked' THEN e.id END) blocked,
	COUNT(CASE WHEN st.role = 'other' THEN e.id END) other
FROM
	execution e
JOIN status st ON
	st.id = e.status_id
WHERE
	1 = 1`

const deleteQuery = `
DELETE
FROM
	execution
WHERE
	id = ?`
