package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4/zero"
)

// TestCaseVersion is an immutable snapshot of a test case's content.
// The (test_case_id, version) pair is unique and version numbers are
// assigned by the store, never by callers.
type TestCaseVersion struct {
	ID             int64       `db:"id" json:"id"`
	TestCaseID     int64       `db:"test_case_id" json:"test_case_id"`
	CreatedBy      int64       `db:"created_by" json:"created_by"`
	ReleaseReady   bool        `db:"release_ready" json:"release_ready"`
	Version        int         `db:"version" json:"version"`
	Name           string      `db:"name" json:"name"`
	Description    zero.String `db:"description" json:"description"`
	Steps          zero.String `db:"steps" json:"steps"`
	ExpectedResult zero.String `db:"expected_result" json:"expected_result"`
	Created        time.Time   `db:"created_at" json:"created_at"`
}

// TestCaseVersionStore defines datastore operations for working with
// test case versions.
type TestCaseVersionStore interface {
	// Create persists a new version. The version number is assigned inside
	// a retried transaction as highest existing version plus one, or one
	// when the test case has no versions yet.
	Create(ctx context.Context, version *TestCaseVersion) (int64, error)
	Find(ctx context.Context, id int64) (*TestCaseVersion, error)
	// FindByTestCase returns all versions of a test case ordered by id descending.
	FindByTestCase(ctx context.Context, testCaseID int64) ([]*TestCaseVersion, error)
	// FindLatest returns the version with the highest id for the test case.
	FindLatest(ctx context.Context, testCaseID int64) (*TestCaseVersion, error)
	// Update persists changes to the descriptive fields only. The version
	// number and the owning test case never change.
	Update(ctx context.Context, version *TestCaseVersion) error
	Delete(ctx context.Context, id int64) error
}
