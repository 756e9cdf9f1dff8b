package statuses

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type statusStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new StatusStore.
func New(db core.DB, logger lumber.Logger) core.StatusStore {
	return &statusStore{db: db, logger: logger}
}

func (s *statusStore) Create(ctx context.Context, status *core.Status) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, status)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *statusStore) Find(ctx context.Context, id int64) (*core.Status, error) {
	status := new(core.Status)
	return status, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(status); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

// FindByRole returns the lowest-id status of the set carrying the role.
func (s *statusStore) FindByRole(ctx context.Context, statusSetID int64, role core.StatusRole) (*core.Status, error) {
	status := new(core.Status)
	return status, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findByRoleQuery, statusSetID, role)
		if err := row.StructScan(status); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *statusStore) ListBySet(ctx context.Context, statusSetID int64) ([]*core.Status, error) {
	statuses := make([]*core.Status, 0)
	return statuses, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listBySetQuery,
			map[string]interface{}{"status_set_id": statusSetID})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			st := new(core.Status)
			if err = rows.StructScan(st); err != nil {
				return errs.SQLError(err)
			}
			statuses = append(statuses, st)
		}
		if len(statuses) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *statusStore) Update(ctx context.Context, status *core.Status) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, status)
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

func (s *statusStore) Delete(ctx context.Context, id int64) error {
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
	status(
		status_set_id,
		name,
		role,
		description
	)
VALUES (
	:status_set_id,
	:name,
	:role,
	:description
)`

const findQuery = `
SELECT
	id,
	status_set_id,
	name,
	role,
	description
FROM
	status
WHERE
	id = ?`

const findByRoleQuery = `
SELECT
	id,
	status_set_id,
	name,
	role,
	description
FROM
	status
WHERE
	status_set_id = ?
	AND role = ?
ORDER BY id
LIMIT 1`

const listBySetQuery = `
SELECT
	id,
	status_set_id,
	name,
	role,
	description
FROM
	status
WHERE
	status_set_id = :status_set_id
ORDER BY id`

const updateQuery = `
UPDATE
	status
SET
	name = :name,
	role = :role,
	description = :description
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	status
WHERE
	id = ?`
