package core

import "context"

// TestSuite represents a named collection of test cases.
type TestSuite struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TestSuiteStore defines datastore operations for working with test suites.
type TestSuiteStore interface {
	Create(ctx context.Context, suite *TestSuite) (int64, error)
	Find(ctx context.Context, id int64) (*TestSuite, error)
	List(ctx context.Context, offset, limit int) ([]*TestSuite, error)
	Update(ctx context.Context, suite *TestSuite) error
	Delete(ctx context.Context, id int64) error
}
