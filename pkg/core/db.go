package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DB represents the MySQL client
type DB interface {
	// Close closes the db connection.
	Close() error

	// ExecuteTransactionWithRetry runs fn in a transaction and retries it
	// on deadlock or lock wait timeout.
	ExecuteTransactionWithRetry(
		ctx context.Context,
		maxRetries uint,
		delay,
		maxJitter time.Duration,
		errorMsg string,
		fn func(tx *sqlx.Tx) error) (err error)

	// Execute runs fn against the underlying connection pool.
	Execute(fn func(conn *sqlx.DB) error) (err error)
}
