package core

import "context"

// Client represents a customer that owns projects.
type Client struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ClientStore defines datastore operations for working with clients.
type ClientStore interface {
	Create(ctx context.Context, client *Client) (int64, error)
	Find(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, offset, limit int) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id int64) error
}
