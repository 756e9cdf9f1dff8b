package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4/zero"
)

// Run represents one pass over a set of executions.
type Run struct {
	ID            int64       `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	ProjectID     int64       `db:"project_id" json:"project_id"`
	StartedAt     zero.Time   `db:"started_at" json:"started_at"`
	DoneAt        zero.Time   `db:"done_at" json:"done_at"`
	SuiteMetadata zero.String `db:"test_suite_metadata" json:"test_suite_metadata"`
}

// Active reports whether the run has started but not finished.
func (r *Run) Active() bool {
	return r.StartedAt.Valid && !r.DoneAt.Valid
}

// RunStats aggregates the execution statuses of a run by role.
type RunStats struct {
	Total      int       `db:"total" json:"total"`
	NotRun     int       `db:"not_run" json:"not_run"`
	InProgress int       `db:"in_progress" json:"in_progress"`
	Passed     int       `db:"passed" json:"passed"`
	Failed     int       `db:"failed" json:"failed"`
	Blocked    int       `db:"blocked" json:"blocked"`
	Other      int       `db:"other" json:"other"`
	StartedAt  zero.Time `db:"started_at" json:"started_at"`
	DoneAt     zero.Time `db:"done_at" json:"done_at"`
}

// RunStore defines datastore operations for working with runs.
type RunStore interface {
	Create(ctx context.Context, run *Run) (int64, error)
	Find(ctx context.Context, id int64) (*Run, error)
	// List returns runs ordered by id descending. A non-zero projectID
	// filters by project, activeOnly keeps runs that started but did not finish.
	List(ctx context.Context, projectID int64, activeOnly bool, offset, limit int) ([]*Run, error)
	Update(ctx context.Context, run *Run) error
	// Start stamps started_at if it is not set yet.
	Start(ctx context.Context, id int64, at time.Time) error
	// Complete stamps done_at if it is not set yet.
	Complete(ctx context.Context, id int64, at time.Time) error
	// Stats returns role-based aggregate counters for the run.
	Stats(ctx context.Context, id int64) (*RunStats, error)
	Delete(ctx context.Context, id int64) error
}
