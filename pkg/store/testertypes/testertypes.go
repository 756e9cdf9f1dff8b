package testertypes

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testerTypeStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new TesterTypeStore.
func New(db core.DB, logger lumber.Logger) core.TesterTypeStore {
	return &testerTypeStore{db: db, logger: logger}
}

func (s *testerTypeStore) Create(ctx context.Context, testerType *core.TesterType) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, testerType)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *testerTypeStore) Find(ctx context.Context, id int64) (*core.TesterType, error) {
	testerType := new(core.TesterType)
	return testerType, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(testerType); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerTypeStore) FindByName(ctx context.Context, name string) (*core.TesterType, error) {
	testerType := new(core.TesterType)
	return testerType, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findByNameQuery, name)
		if err := row.StructScan(testerType); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerTypeStore) List(ctx context.Context, offset, limit int) ([]*core.TesterType, error) {
	testerTypes := make([]*core.TesterType, 0)
	return testerTypes, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			tt := new(core.TesterType)
			if err = rows.StructScan(tt); err != nil {
				return errs.SQLError(err)
			}
			testerTypes = append(testerTypes, tt)
		}
		if len(testerTypes) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testerTypeStore) Update(ctx context.Context, testerType *core.TesterType) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, testerType)
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

func (s *testerTypeStore) Delete(ctx context.Context, id int64) error {
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
	tester_type(
		name,
		description
	)
VALUES (
	:name,
	:description
)`

const findQuery = `
SELECT
	id,
	name,
	description
FROM
	tester_type
WHERE
	id = ?`

const findByNameQuery = `
SELECT
	id,
	name,
	description
FROM
	tester_type
WHERE
	name = ?`

const listQuery = `
SELECT
	id,
	name,
	description
FROM
	tester_type
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	tester_type
SET
	name = :name,
	description = :description
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	tester_type
WHERE
	id = ?`
