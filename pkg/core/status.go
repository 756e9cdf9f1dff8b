package core

import (
	"context"

	"gopkg.in/guregu/null.v4/zero"
)

// StatusRole tags a status with its well-known meaning. Aggregation and the
// materializer default are keyed on the role, never on the display name.
type StatusRole string

// All status roles.
const (
	StatusRoleNotRun     StatusRole = "not_run"
	StatusRoleInProgress StatusRole = "in_progress"
	StatusRolePassed     StatusRole = "passed"
	StatusRoleFailed     StatusRole = "failed"
	StatusRoleBlocked    StatusRole = "blocked"
	StatusRoleOther      StatusRole = "other"
)

// Valid reports whether the role is one of the known roles.
func (r StatusRole) Valid() bool {
	switch r {
	case StatusRoleNotRun, StatusRoleInProgress, StatusRolePassed,
		StatusRoleFailed, StatusRoleBlocked, StatusRoleOther:
		return true
	}
	return false
}

// StatusSet represents a named collection of statuses.
type StatusSet struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Status represents an execution status within a status set. The display
// name is free text, the role carries the semantics.
type Status struct {
	ID          int64       `db:"id" json:"id"`
	StatusSetID int64       `db:"status_set_id" json:"status_set_id"`
	Name        string      `db:"name" json:"name"`
	Role        StatusRole  `db:"role" json:"role"`
	Description zero.String `db:"description" json:"description"`
}

// StatusSetStore defines datastore operations for working with status sets.
type StatusSetStore interface {
	Create(ctx context.Context, set *StatusSet) (int64, error)
	Find(ctx context.Context, id int64) (*StatusSet, error)
	FindByName(ctx context.Context, name string) (*StatusSet, error)
	List(ctx context.Context, offset, limit int) ([]*StatusSet, error)
	Update(ctx context.Context, set *StatusSet) error
	Delete(ctx context.Context, id int64) error
}

// StatusStore defines datastore operations for working with statuses.
type StatusStore interface {
	Create(ctx context.Context, status *Status) (int64, error)
	Find(ctx context.Context, id int64) (*Status, error)
	// FindByRole returns the lowest-id status of the set carrying the given role.
	FindByRole(ctx context.Context, statusSetID int64, role StatusRole) (*Status, error)
	// ListBySet returns all statuses of a status set ordered by id.
	ListBySet(ctx context.Context, statusSetID int64) ([]*Status, error)
	Update(ctx context.Context, status *Status) error
	Delete(ctx context.Context, id int64) error
}
