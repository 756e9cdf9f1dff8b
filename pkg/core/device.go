package core

import (
	"context"

	"gopkg.in/guregu/null.v4/zero"
)

// Device represents a physical or virtual machine executions run on.
type Device struct {
	ID           int64       `db:"id" json:"id"`
	ProjectID    int64       `db:"project_id" json:"project_id"`
	NameExternal string      `db:"name_external" json:"name_external"`
	NameInternal string      `db:"name_internal" json:"name_internal"`
	CPU          zero.String `db:"cpu" json:"cpu"`
	GPU          zero.String `db:"gpu" json:"gpu"`
	RAM          zero.String `db:"ram" json:"ram"`
}

// DeviceStore defines datastore operations for working with devices.
type DeviceStore interface {
	Create(ctx context.Context, device *Device) (int64, error)
	Find(ctx context.Context, id int64) (*Device, error)
	// List returns devices ordered by id. A non-zero projectID filters by project.
	List(ctx context.Context, projectID int64, offset, limit int) ([]*Device, error)
	Update(ctx context.Context, device *Device) error
	Delete(ctx context.Context, id int64) error
}
