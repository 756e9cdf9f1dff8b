package core

import "context"

// Scenario represents a named test scenario grouping test cases.
type Scenario struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ScenarioStore defines datastore operations for working with scenarios.
type ScenarioStore interface {
	Create(ctx context.Context, scenario *Scenario) (int64, error)
	Find(ctx context.Context, id int64) (*Scenario, error)
	List(ctx context.Context, offset, limit int) ([]*Scenario, error)
	Update(ctx context.Context, scenario *Scenario) error
	Delete(ctx context.Context, id int64) error
}
