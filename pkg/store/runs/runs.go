package runs

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type runStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new RunStore.
func New(db core.DB, logger lumber.Logger) core.RunStore {
	return &runStore{db: db, logger: logger}
}

func (s *runStore) Create(ctx context.Context, run *core.Run) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, run)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *runStore) Find(ctx context.Context, id int64) (*core.Run, error) {
	run := new(core.Run)
	return run, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(run); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *runStore) List(ctx context.Context, projectID int64, activeOnly bool, offset, limit int) ([]*core.Run, error) {
	runs := make([]*core.Run, 0)
	return runs, s.db.Execute(func(db *sqlx.DB) error {
		args := map[string]interface{}{
			"project_id": projectID,
			"offset":     offset,
			"limit":      limit,
		}
		query := listQuery
		if projectID != 0 {
			query += " AND project_id = :project_id"
		}
		if activeOnly {
			query += " AND started_at IS NOT NULL AND done_at IS NULL"
		}
		query += " ORDER BY id DESC LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			r := new(core.Run)
			if err = rows.StructScan(r); err != nil {
				return errs.SQLError(err)
			}
			runs = append(runs, r)
		}
		if len(runs) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *runStore) Update(ctx context.Context, run *core.Run) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, run)
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

// Start stamps started_at once. A run that already started keeps its
// original timestamp.
func (s *runStore) Start(ctx context.Context, id int64, at time.Time) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, startQuery, at, id); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// Complete stamps done_at once. A run that already finished keeps its
// original timestamp.
func (s *runStore) Complete(ctx context.Context, id int64, at time.Time) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, completeQuery, at, id); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *runStore) Stats(ctx context.Context, id int64) (*core.RunStats, error) {
	stats := new(core.RunStats)
	return stats, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, statsQuery, id, id, id)
		if err := row.StructScan(stats); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *runStore) Delete(ctx context.Context, id int64) error {
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
	run(
		name,
		project_id,
		started_at,
		done_at,
		test_suite_metadata
	)
VALUES (
	:name,
	:project_id,
	:started_at,
	:done_at,
	:test_suite_metadata
)`

const findQuery = `
SELECT
	id,
	name,
	project_id,
	started_at,
	done_at,
	test_suite_metadata
FROM
	run
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	name,
	project_id,
	started_at,
	done_at,
	test_suite_metadata
FROM
	run
WHERE
	1 = 1`

const updateQuery = `
UPDATE
	run
SET
	name = :name,
	project_id = :project_id,
	test_suite_metadata = :test_suite_metadata
WHERE
	id = :id`

const startQuery = `
UPDATE
	run
SET
	started_at = ?
WHERE
	id = ?
	AND started_at IS NULL`

const completeQuery = `
UPDATE
	run
SET
	done_at = ?
WHERE
	id = ?
	AND done_at IS NULL`

const statsQuery = `
SELECT
	COUNT(e.id) total,
	COUNT(CASE WHEN st.role = 'not_run' THEN e.id END) not_run,
	COUNT(CASE WHEN st.role = 'in_progress' THEN e.id END) in_progress,
	COUNT(CASE WHEN st.role = 'passed' THEN e.id END) passed,
	COUNT(CASE WHEN st.role = 'failed' THEN e.id END) failed,
	COUNT(CASE WHEN st.role = 'blocked' THEN e.id END) blocked,
	COUNT(CASE WHEN st.role = 'other' THEN e.id END) other,
	(SELECT r.started_at FROM run r WHERE r.id = ?) started_at,
	(SELECT r.done_at FROM run r WHERE r.id = ?) done_at
FROM
	execution e
JOIN status st ON
	st.id = e.status_id
WHERE
	e.run_id = ?`

const deleteQuery = `
DELETE
FROM
	run
WHERE
	id = ?`
