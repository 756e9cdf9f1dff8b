package core

import "context"

// TesterGroup represents a named group of testers.
type TesterGroup struct {
	ID          int64  `db:"id" json:"id"`
	CreatedByID int64  `db:"created_by_id" json:"created_by_id"`
	OwnerID     int64  `db:"owner_id" json:"owner_id"`
	Name        string `db:"name" json:"name"`
}

// TesterGroupStore defines datastore operations for working with tester groups.
type TesterGroupStore interface {
	Create(ctx context.Context, group *TesterGroup) (int64, error)
	Find(ctx context.Context, id int64) (*TesterGroup, error)
	List(ctx context.Context, offset, limit int) ([]*TesterGroup, error)
	Update(ctx context.Context, group *TesterGroup) error
	Delete(ctx context.Context, id int64) error
}
