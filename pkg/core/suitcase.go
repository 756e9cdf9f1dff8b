package core

import "context"

// Suitcase is the membership of a test case in a test suite. The
// (test_case_id, test_suite_id) pair is unique.
type Suitcase struct {
	ID          int64 `db:"id" json:"id"`
	TestCaseID  int64 `db:"test_case_id" json:"test_case_id"`
	TestSuiteID int64 `db:"test_suite_id" json:"test_suite_id"`
}

// SuitcaseStore defines datastore operations for working with suite memberships.
type SuitcaseStore interface {
	Create(ctx context.Context, suitcase *Suitcase) (int64, error)
	Find(ctx context.Context, id int64) (*Suitcase, error)
	// CreateBulk adds many test cases to a suite, silently skipping pairs
	// that already exist. Returns the number of rows actually added.
	CreateBulk(ctx context.Context, testSuiteID int64, testCaseIDs []int64) (int64, error)
	// FindBySuite returns the memberships of a suite ordered by id.
	FindBySuite(ctx context.Context, testSuiteID int64) ([]*Suitcase, error)
	Delete(ctx context.Context, id int64) error
}
