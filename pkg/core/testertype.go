package core

import (
	"context"

	"gopkg.in/guregu/null.v4/zero"
)

// TesterType represents the access tier of a tester.
type TesterType struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description zero.String `db:"description" json:"description"`
}

// TesterTypeStore defines datastore operations for working with tester types.
type TesterTypeStore interface {
	Create(ctx context.Context, testerType *TesterType) (int64, error)
	Find(ctx context.Context, id int64) (*TesterType, error)
	// FindByName returns the tester type with the given unique name.
	FindByName(ctx context.Context, name string) (*TesterType, error)
	List(ctx context.Context, offset, limit int) ([]*TesterType, error)
	Update(ctx context.Context, testerType *TesterType) error
	Delete(ctx context.Context, id int64) error
}
