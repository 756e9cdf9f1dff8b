package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4/zero"
)

// Tester represents a registered tester account.
type Tester struct {
	ID            int64     `db:"id" json:"id"`
	TesterGroupID zero.Int  `db:"tester_group_id" json:"tester_group_id"`
	TesterTypeID  int64     `db:"tester_type_id" json:"tester_type_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Email         string    `db:"email" json:"email"`
	Password      string    `db:"password" json:"-"`
	Active        bool      `db:"active" json:"active"`
	Created       time.Time `db:"created_at" json:"created_at"`
	LastLogin     zero.Time `db:"last_login_at" json:"last_login_at"`
}

// TesterStore defines datastore operations for working with testers.
type TesterStore interface {
	// Create persists a new tester and returns its id.
	Create(ctx context.Context, tester *Tester) (int64, error)
	// Find returns the tester with the given id.
	Find(ctx context.Context, id int64) (*Tester, error)
	// FindByEmail returns the tester with the given email.
	FindByEmail(ctx context.Context, email string) (*Tester, error)
	// List returns testers ordered by id.
	List(ctx context.Context, offset, limit int) ([]*Tester, error)
	// Update persists changes to name, group, type and active flag.
	Update(ctx context.Context, tester *Tester) error
	// UpdateLastLogin stamps the last login time.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// Delete removes the tester.
	Delete(ctx context.Context, id int64) error
}
