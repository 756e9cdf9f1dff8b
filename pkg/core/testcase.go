package core

import (
	"context"
	"time"
)

// TestCase is the stable identity of a test. Its content lives in
// test case versions.
type TestCase struct {
	ID          int64     `db:"id" json:"id"`
	ScenarioID  int64     `db:"scenario_id" json:"scenario_id"`
	StatusSetID int64     `db:"status_set_id" json:"status_set_id"`
	Created     time.Time `db:"created_at" json:"created_at"`
}

// TestCaseStore defines datastore operations for working with test cases.
type TestCaseStore interface {
	Create(ctx context.Context, testCase *TestCase) (int64, error)
	Find(ctx context.Context, id int64) (*TestCase, error)
	// List returns test cases ordered by id. A non-zero scenarioID filters by scenario.
	List(ctx context.Context, scenarioID int64, offset, limit int) ([]*TestCase, error)
	Update(ctx context.Context, testCase *TestCase) error
	Delete(ctx context.Context, id int64) error
}
