package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4/zero"
)

// Attachment represents an uploaded artifact. The payload lives in the
// file store, the row records only the generated name and relative path.
type Attachment struct {
	ID                 int64       `db:"id" json:"id"`
	ParentAttachmentID zero.Int    `db:"parent_attachment_id" json:"parent_attachment_id"`
	UploadedBy         int64       `db:"uploaded_by" json:"uploaded_by"`
	ResolutionID       zero.Int    `db:"resolution_id" json:"resolution_id"`
	Filename           string      `db:"filename" json:"filename"`
	RelativePath       string      `db:"relative_path" json:"relative_path"`
	UploadedAt         time.Time   `db:"uploaded_at" json:"uploaded_at"`
	PresentmonFile     bool        `db:"presentmon_file" json:"presentmon_file"`
	PresentmonVersion  zero.String `db:"presentmon_version" json:"presentmon_version"`
	Settings           zero.String `db:"settings" json:"settings"`
}

// AttachmentStore defines datastore operations for working with attachments.
type AttachmentStore interface {
	Create(ctx context.Context, attachment *Attachment) (int64, error)
	Find(ctx context.Context, id int64) (*Attachment, error)
	// List returns attachments ordered by id descending. A non-zero
	// uploadedBy filters by uploader.
	List(ctx context.Context, uploadedBy int64, offset, limit int) ([]*Attachment, error)
	Delete(ctx context.Context, id int64) error
}
