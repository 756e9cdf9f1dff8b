package devices

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type deviceStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new DeviceStore.
func New(db core.DB, logger lumber.Logger) core.DeviceStore {
	return &deviceStore{db: db, logger: logger}
}

func (s *deviceStore) Create(ctx context.Context, device *core.Device) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, device)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *deviceStore) Find(ctx context.Context, id int64) (*core.Device, error) {
	device := new(core.Device)
	return device, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(device); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *deviceStore) List(ctx context.Context, projectID int64, offset, limit int) ([]*core.Device, error) {
	devices := make([]*core.Device, 0)
	return devices, s.db.Execute(func(db *sqlx.DB) error {
		args := map[string]interface{}{
			"project_id": projectID,
			"offset":     offset,
			"limit":      limit,
		}
		query := listQuery
		if projectID != 0 {
			query += " WHERE project_id = :project_id"
		}
		query += " ORDER BY id LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			d := new(core.Device)
			if err = rows.StructScan(d); err != nil {
				return errs.SQLError(err)
			}
			devices = append(devices, d)
		}
		if len(devices) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *deviceStore) Update(ctx context.Context, device *core.Device) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, updateQuery, device)
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

func (s *deviceStore) Delete(ctx context.Context, id int64) error {
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
	device(
		project_id,
		name_external,
		name_internal,
		cpu,
		gpu,
		ram
	)
VALUES (
	:project_id,
	:name_external,
	:name_internal,
	:cpu,
	:gpu,
	:ram
)`

const findQuery = `
SELECT
	id,
	project_id,
	name_external,
	name_internal,
	cpu,
	gpu,
	ram
FROM
	device
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	project_id,
	name_external,
	name_internal,
	cpu,
	gpu,
	ram
FROM
	device`

const updateQuery = `
UPDATE
	device
SET
	project_id = :project_id,
	name_external = :name_external,
	name_internal = :name_internal,
	cpu = :cpu,
	gpu = :gpu,
	ram = :ram
WHERE
	id = :id`

const deleteQuery = `
DELETE
FROM
	device
WHERE
	id = ?`
