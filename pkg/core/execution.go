package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4/zero"
)

// Execution is one scheduled (and possibly performed) run of a test case
// version on a device. The (run_id, test_case_version_id) pair is unique.
type Execution struct {
	ID                int64       `db:"id" json:"id"`
	DeviceID          int64       `db:"device_id" json:"device_id"`
	RunID             int64       `db:"run_id" json:"run_id"`
	TestCaseVersionID int64       `db:"test_case_version_id" json:"test_case_version_id"`
	ExecutedBy        int64       `db:"executed_by" json:"executed_by"`
	StatusID          int64       `db:"status_id" json:"status_id"`
	AttachmentID      zero.Int    `db:"attachment_id" json:"attachment_id"`
	ActualResult      zero.String `db:"actual_result" json:"actual_result"`
	ExecutedAt        zero.Time   `db:"executed_at" json:"executed_at"`
	ExecutionOrder    int         `db:"execution_order" json:"execution_order"`
}

// ExecutionFilters narrows execution listings and stats. Zero values mean
// the filter is not applied.
type ExecutionFilters struct {
	RunID             int64
	DeviceID          int64
	TesterID          int64
	StatusID          int64
	TestCaseVersionID int64
	ExecutedAfter     time.Time
	ExecutedBefore    time.Time
}

// ExecutionStats aggregates execution statuses by role.
type ExecutionStats struct {
	Total      int `db:"total" json:"total"`
	NotRun     int `db:"not_run" json:"not_run"`
	InProgress int `db:"in_progress" json:"in_progress"`
	Passed     int `db:"passed" json:"passed"`
	Failed     int `db:"failed" json:"failed"`
	Blocked    int `db:"blocked" json:"blocked"`
	Other      int `db:"other" json:"other"`
}

// ResolvedCase is a (test case, version) pair produced by the version
// resolver, in suite membership order.
type ResolvedCase struct {
	TestCaseID        int64 `json:"test_case_id"`
	TestCaseVersionID int64 `json:"test_case_version_id"`
}

// MaterializeRequest asks the execution service to fill a run with
// executions for every resolvable member of a suite. The run id comes
// from the route, not the body.
type MaterializeRequest struct {
	TestSuiteID int64           `json:"test_suite_id" binding:"required"`
	RunID       int64           `json:"-"`
	DeviceID    int64           `json:"device_id" binding:"required"`
	TesterID    int64           `json:"tester_id" binding:"required"`
	Overrides   map[int64]int64 `json:"overrides"`
}

// StatusTransition carries a status update for an execution.
type StatusTransition struct {
	StatusID     int64       `json:"status_id" binding:"required"`
	ActualResult zero.String `json:"actual_result"`
	AttachmentID zero.Int    `json:"attachment_id"`
}

// ExecutionStore defines datastore operations for working with executions.
type ExecutionStore interface {
	Create(ctx context.Context, execution *Execution) (int64, error)
	Find(ctx context.Context, id int64) (*Execution, error)
	// FindByRunAndVersion returns the execution for the unique
	// (run_id, test_case_version_id) pair.
	FindByRunAndVersion(ctx context.Context, runID, versionID int64) (*Execution, error)
	// List returns executions matching the filters ordered by id.
	List(ctx context.Context, filters *ExecutionFilters, offset, limit int) ([]*Execution, error)
	// ListByRun returns all executions of a run ordered by execution_order.
	ListByRun(ctx context.Context, runID int64) ([]*Execution, error)
	// UpdateOrder re-sequences an execution within its run.
	UpdateOrder(ctx context.Context, id int64, order int) error
	// UpdateStatus sets the status and optional result fields. The
	// executed_at column is stamped only when still unset.
	UpdateStatus(ctx context.Context, id int64, transition *StatusTransition, at time.Time) error
	// UpdateDevice reassigns the execution to another device.
	UpdateDevice(ctx context.Context, id, deviceID int64) error
	// UpdateTester reassigns the execution to another tester.
	UpdateTester(ctx context.Context, id, testerID int64) error
	// Stats returns role-based aggregate counters for the filtered executions.
	Stats(ctx context.Context, filters *ExecutionFilters) (*ExecutionStats, error)
	Delete(ctx context.Context, id int64) error
}

// ExecutionService implements the version resolver, the execution
// materializer and the status transition rules.
type ExecutionService interface {
	// ResolveSuiteVersions maps every member of the suite to the version
	// that should be exercised, honoring per-test-case overrides.
	ResolveSuiteVersions(ctx context.Context, testSuiteID int64, overrides map[int64]int64) ([]*ResolvedCase, error)
	// MaterializeRun ensures one execution per resolved pair for the run,
	// assigning contiguous execution order. Best effort per pair.
	MaterializeRun(ctx context.Context, req *MaterializeRequest) ([]*Execution, error)
	// TransitionStatus applies a status update to an execution.
	TransitionStatus(ctx context.Context, executionID int64, transition *StatusTransition) (*Execution, error)
	// ReassignDevice moves an execution to another device.
	ReassignDevice(ctx context.Context, executionID, deviceID int64) (*Execution, error)
	// ReassignTester moves an execution to another tester.
	ReassignTester(ctx context.Context, executionID, testerID int64) (*Execution, error)
}
