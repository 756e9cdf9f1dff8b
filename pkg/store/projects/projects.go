package projects

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type projectStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new ProjectStore.
func New(db core.DB, logger lumber.Logger) core.ProjectStore {
	return &projectStore{db: db, logger: logger}
}

func (s *projectStore) Create(ctx context.Context, project *core.Project) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, project)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *projectStore) Find(ctx context.Context, id int64) (*core.Project, error) {
	project := new(core.Project)
	return project, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(project); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *projectStore) List(ctx context.Context, clientID int64, offset, limit int) ([]*core.Project, error) {
	projects := make([]*core.Project, 0)
	return projects, s.db.Execute(func(db *sqlx.DB) error {
		args := map[string]interface{}{
			"client_id": clientID,
			"offset":    offset,
			"limit":     limit,
		}
		query := listQuery
		if clientID != 0 {
			query += " WHERE client_id = :client_id"
		}
		query += " ORDER BY id LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			p := new(core.Project)
			if err = rows.StructScan(p); err != nil {
				return errs.SQLError(err)
			}
			projects = append(projects, p)
		}
		if len(projects) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *projectStore) Update(ctx context.Context, project *core.Project) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, project)
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

func (s *projectStore) Delete(ctx context.Context, id int64) error {
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
	project(
		name,
		client_id
	)
VALUES (
	:name,
	:client_id
)`

const findQuery = `
SELECT
	id,
	name,
	client_id
FROM
	project
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	name,
	client_id
FROM
	project`

const updateQuery = `
UPDATE
	project
SET
	name = :name,
	client_id = :client_id
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	project
WHERE
	id = ?`
