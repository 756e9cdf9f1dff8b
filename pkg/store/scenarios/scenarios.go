package scenarios

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type scenarioStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new ScenarioStore.
func New(db core.DB, logger lumber.Logger) core.ScenarioStore {
	return &scenarioStore{db: db, logger: logger}
}

func (s *scenarioStore) Create(ctx context.Context, scenario *core.Scenario) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, scenario)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *scenarioStore) Find(ctx context.Context, id int64) (*core.Scenario, error) {
	scenario := new(core.Scenario)
	return scenario, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(scenario); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *scenarioStore) List(ctx context.Context, offset, limit int) ([]*core.Scenario, error) {
	scenarios := make([]*core.Scenario, 0)
	return scenarios, s.db.Execute(func(db *sqlx.DB) error {
		rows, err := db.NamedQueryContext(ctx, listQuery,
			map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			sc := new(core.Scenario)
			if err = rows.StructScan(sc); err != nil {
				return errs.SQLError(err)
			}
			scenarios = append(scenarios, sc)
		}
		if len(scenarios) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *scenarioStore) Update(ctx context.Context, scenario *core.Scenario) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, scenario)
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

func (s *scenarioStore) Delete(ctx context.Context, id int64) error {
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
	scenario(
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
	scenario
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	name
FROM
	scenario
ORDER BY id
LIMIT :limit OFFSET :offset`

const updateQuery = `
UPDATE
	scenario
SET
	name = :name
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	scenario
WHERE
	id = ?`
