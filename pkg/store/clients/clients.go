package clients

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type clientStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new ClientStore.
func New(db core.DB, logger lumber.Logger) core.ClientStore {
	return &clientStore{db: db, logger: logger}
}

func (s *clientStore) Create(ctx context.Context, client *core.Client) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, client)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *clientStore) Find(ctx context.Context, id int64) (*core.Client, error) {
	client := new(core.Client)
	return client, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(client); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *clientStore) List(ctx context.Context, offset, limit int) ([]*core.Client, error) {
	clients := make([]*core.Client, 0)
	return clients, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			c := new(core.Client)
			if err = rows.StructScan(c); err != nil {
				return errs.SQLError(err)
			}
			clients = append(clients, c)
		}
		if len(clients) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *clientStore) Update(ctx context.Context, client *core.Client) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, client)
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

func (s *clientStore) Delete(ctx context.Context, id int64) error {
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
	client(
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
	client
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	name
FROM
	client
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	client
SET
	name = :name
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	client
WHERE
	id = ?`
