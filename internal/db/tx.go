package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn in a transaction and commits when fn returns nil. Called on
// a pgx.Tx it opens a savepoint.
func WithTx(conn DBTX, ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// IsUniqueViolation reports whether err is a unique constraint failure on the
// named constraint. An empty name matches any unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return pgCode(err, codeUniqueViolation, constraint)
}

// IsExclusionViolation reports whether err is an exclusion constraint failure.
func IsExclusionViolation(err error, constraint string) bool {
	return pgCode(err, codeExclusionViolation, constraint)
}

func pgCode(err error, code, constraint string) bool {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
