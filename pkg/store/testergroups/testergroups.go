package testergroups

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testerGroupStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new TesterGroupStore.
func New(db core.DB, logger lumber.Logger) core.TesterGroupStore {
	return &testerGroupStore{db: db, logger: logger}
}

func (s *testerGroupStore) Create(ctx context.Context, group *core.TesterGroup) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, group)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *testerGroupStore) Find(ctx context.Context, id int64) (*core.TesterGroup, error) {
	group := new(core.TesterGroup)
	return group, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(group); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerGroupStore) List(ctx context.Context, offset, limit int) ([]*core.TesterGroup, error) {
	groups := make([]*core.TesterGroup, 0)
	return groups, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			g := new(core.TesterGroup)
			if err = rows.StructScan(g); err != nil {
				return errs.SQLError(err)
			}
			groups = append(groups, g)
		}
		if len(groups) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testerGroupStore) Update(ctx context.Context, group *core.TesterGroup) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, group)
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

func (s *testerGroupStore) Delete(ctx context.Context, id int64) error {
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
	tester_group(
		created_by_id,
		owner_id,
		name
	)
VALUES (
	:created_by_id,
	:owner_id,
	:name
)`

const findQuery = `
SELECT
	id,
	created_by_id,
	owner_id,
	name
FROM
	tester_group
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	created_by_id,
	owner_id,
	name
FROM
	tester_group
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	tester_group
SET
	owner_id = :owner_id,
	name = :name
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	tester_group
WHERE
	id = ?`
