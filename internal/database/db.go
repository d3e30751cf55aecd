package database

import (
	"context"
	"database/sql"
)

// Querier is the query surface shared by pooled connections and open
// transactions. Catalog code is written against this so tests can swap
// in fakes without a live Postgres.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type DB interface {
	Querier

	Ping(ctx context.Context) error
	Begin(ctx context.Context) (Tx, error)
	Close() error

	// SQLDB exposes a database/sql view of the same pool for tooling
	// that speaks *sql.DB, such as the migration runner.
	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
