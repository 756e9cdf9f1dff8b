package attachments

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

type attachmentStore struct {
	db     core.DB
	logger lumber.Logger
}

// New returns a new AttachmentStore.
func New(db core.DB, logger lumber.Logger) core.AttachmentStore {
	return &attachmentStore{db: db, logger: logger}
}

func (s *attachmentStore) Create(ctx context.Context, attachment *core.Attachment) (int64, error) {
	var id int64
	err := s.db.Execute(func(db *sqlx.DB) error {
		result, err := db.NamedExecContext(ctx, insertQuery, attachment)
		if err != nil {
			return errs.SQLError(err)
		}
		id, err = result.LastInsertId()
		return err
	})
	return id, err
}

func (s *attachmentStore) Find(ctx context.Context, id int64) (*core.Attachment, error) {
	attachment := new(core.Attachment)
	return attachment, s.db.Execute(func(db *sqlx.DB) error {
		row := db.QueryRowxContext(ctx, findQuery, id)
		if err := row.StructScan(attachment); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *attachmentStore) List(ctx context.Context, uploadedBy int64, offset, limit int) ([]*core.Attachment, error) {
	attachments := make([]*core.Attachment, 0)
	return attachments, s.db.Execute(func(db *sqlx.DB) error {
		args := map[string]interface{}{
			"uploaded_by": uploadedBy,
			"offset":      offset,
			"limit":       limit,
		}
		query := listQuery
		if uploadedBy != 0 {
			query += " WHERE uploaded_by = :uploaded_by"
		}
		query += " ORDER BY id DESC LIMIT :limit OFFSET :offset"
		rows, err := db.NamedQueryContext(ctx, query, args)
		if err != nil {
			return errs.SQLError(err)
		}
		defer rows.Close()
		for rows.Next() {
			a := new(core.Attachment)
			if err = rows.StructScan(a); err != nil {
				return errs.SQLError(err)
			}
			attachments = append(attachments, a)
		}
		if len(attachments) == 0 {
			return errs.ErrRowsNotFound
		}
		return nil
	})
}

func (s *attachmentStore) Delete(ctx context.Context, id int64) error {
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
	attachment(
		parent_attachment_id,
		uploaded_by,
		resolution_id,
		filename,
		relative_path,
		uploaded_at,
		presentmon_file,
		presentmon_version,
		settings
	)
VALUES (
	:parent_attachment_id,
	:uploaded_by,
	:resolution_id,
	:filename,
	:relative_path,
	:uploaded_at,
	:presentmon_file,
	:presentmon_version,
	:settings
)`

const findQuery = `
SELECT
	id,
	parent_attachment_id,
	uploaded_by,
	resolution_id,
	filename,
	relative_path,
	uploaded_at,
	presentmon_file,
	presentmon_version,
	settings
FROM
	attachment
WHERE
	id = ?`

const listQuery = `
SELECT
	id,
	parent_attachment_id,
	uploaded_by,
	resolution_id,
	filename,
	relative_path,
	uploaded_at,
	presentmon_file,
	presentmon_version,
	settings
FROM
	attachment`

const deleteQuery = `
DELETE
FROM
	attachment
WHERE
	id = ?`
