package core

import "context"

// Project represents a client's project under test.
type Project struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	ClientID int64  `db:"client_id" json:"client_id"`
}

// ProjectStore defines datastore operations for working with projects.
type ProjectStore interface {
	Create(ctx context.Context, project *Project) (int64, error)
	Find(ctx context.Context, id int64) (*Project, error)
	// List returns projects ordered by id. A non-zero clientID filters by client.
	List(ctx context.Context, clientID int64, offset, limit int) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id int64) error
}
