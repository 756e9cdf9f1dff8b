package statussets

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type statusSetStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new StatusSetStore.
func New(db core.DB, logger lumber.Logger) core.StatusSetStore {
	return &statusSetStore{db: db, logger: logger}
}

func (s *statusSetStore) Create(ctx context.Context, statusSet *core.StatusSet) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, statusSet)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *statusSetStore) Find(ctx context.Context, id int64) (*core.StatusSet, error) {
	statusSet := new(core.StatusSet)
	return statusSet, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(statusSet); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *statusSetStore) FindByName(ctx context.Context, name string) (*core.StatusSet, error) {
	statusSet := new(core.StatusSet)
	return statusSet, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findByNameQuery, name)
		if err := row.StructScan(statusSet); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *statusSetStore) List(ctx context.Context, offset, limit int) ([]*core.StatusSet, error) {
	statusSets := make([]*core.StatusSet, 0)
	return statusSets, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			ss := new(core.StatusSet)
			if err = rows.StructScan(ss); err != nil {
				return errs.SQLError(err)
			}
			statusSets = append(statusSets, ss)
		}
		if len(statusSets) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *statusSetStore) Update(ctx context.Context, statusSet *core.StatusSet) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, statusSet)
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

func (s *statusSetStore) Delete(ctx context.Context, id int64) error {
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
	status_set(
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
	status_set
WHERE
	id = ?`

const findByNameQuery = `
SELECT
	id,
	name
FROM
	status_set
WHERE
	name = ?`

const listQuery = `
SELECT
	id,
	name
FROM
	status_set
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	status_set
SET
	name = :name
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	status_set
WHERE
	id = ?`
