package testers

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type testerStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new TesterStore.
func New(db core.DB, logger lumber.Logger) core.TesterStore {
	return &testerStore{db: db, logger: logger}
}

func (s *testerStore) Create(ctx context.Context, tester *core.Tester) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, tester)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *testerStore) Find(ctx context.Context, id int64) (*core.Tester, error) {
	tester := new(core.Tester)
	return tester, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(tester); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerStore) FindByEmail(ctx context.Context, email string) (*core.Tester, error) {
	tester := new(core.Tester)
	return tester, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findByEmailQuery, email)
		if err := row.StructScan(tester); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerStore) List(ctx context.Context, offset, limit int) ([]*core.Tester, error) {
	testers := make([]*core.Tester, 0)
	return testers, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			t := new(core.Tester)
			if err = rows.StructScan(t); err != nil {
				return errs.SQLError(err)
			}
			testers = append(testers, t)
		}
		if len(testers) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *testerStore) Update(ctx context.Context, tester *core.Tester) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, tester)
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

func (s *testerStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, updateLastLoginQuery, at, id); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testerStore) Delete(ctx context.Context, id int64) error {
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
	tester(
		tester_group_id,
		tester_type_id,
		first_name,
		last_name,
		email,
		password,
		active,
		created_at
	)
VALUES (
	:tester_group_id,
	:tester_type_id,
	:first_name,
	:last_name,
	:email,
	:password,
	:active,
	:created_at
)`

const findQuery = `
SELECT
	id,
	tester_group_id,
	tester_type_id,
	first_name,
	last_name,
	email,
	password,
	active,
	created_at,
	last_login_at
FROM
	tester
WHERE
	id = ?`

const findByEmailQuery = `
SELECT
	id,
	tester_group_id,
	tester_type_id,
	first_name,
	last_name,
	email,
	password,
	active,
	created_at,
	last_login_at
FROM
	tester
WHERE
	email = ?`

const listQuery = `
SELECT
	id,
	tester_group_id,
	tester_type_id,
	first_name,
	last_name,
	email,
	password,
	active,
	created_at,
	last_login_at
FROM
	tester
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	tester
SET
	tester_group_id = :tester_group_id,
	tester_type_id = :tester_type_id,
	first_name = :first_name,
	last_name = :last_name,
	email = :email,
	active = :active
WHERE
	id = :id`

const updateLastLoginQuery = `
UPDATE
	tester
SET
	last_login_at = ?
WHERE
	id = ?`

const deleteQuery = `
DELETE
FROM
	tester
WHERE
	id = ?`
