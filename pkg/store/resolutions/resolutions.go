package resolutions

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type resolutionStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new ResolutionStore.
func New(db core.DB, logger lumber.Logger) core.ResolutionStore {
	return &resolutionStore{db: db, logger: logger}
}

func (s *resolutionStore) Create(ctx context.Context, resolution *core.Resolution) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, resolution)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *resolutionStore) Find(ctx context.Context, id int64) (*core.Resolution, error) {
	resolution := new(core.Resolution)
	return resolution, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(resolution); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *resolutionStore) List(ctx context.Context, offset, limit int) ([]*core.Resolution, error) {
	resolutions := make([]*core.Resolution, 0)
	return resolutions, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			r := new(core.Resolution)
			if err = rows.StructScan(r); err != nil {
				return errs.SQLError(err)
			}
			resolutions = append(resolutions, r)
		}
		if len(resolutions) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *resolutionStore) Delete(ctx context.Context, id int64) error {
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
	resolution(
		h,
		w
	)
VALUES (
	:h,
	:w
)`

const findQuery = `
SELECT
	id,
	h,
	w
FROM
	resolution
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	h,
	w
FROM
	resolution
ORDER BY id
LIMIT :limit OFFSET :offset`

const deleteQuery = `
DELETE
FROM
	resolution
WHERE
	id = ?`
