package core

import "context"

// Seeder creates the built-in records on startup.
type Seeder interface {
	// Seed inserts the records if they do not exist yet.
	Seed(ctx context.Context) error
}
