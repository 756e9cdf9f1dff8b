package core

import "context"

// Resolution represents a screen resolution attached to presentmon captures.
type Resolution struct {
	ID int64 `db:"id" json:"id"`
	H  int   `db:"h" json:"h"`
	W  int   `db:"w" json:"w"`
}

// ResolutionStore defines datastore operations for working with resolutions.
type ResolutionStore interface {
	Create(ctx context.Context, resolution *Resolution) (int64, error)
	Find(ctx context.Context, id int64) (*Resolution, error)
	List(ctx context.Context, offset, limit int) ([]*Resolution, error)
	Delete(ctx context.Context, id int64) error
}
