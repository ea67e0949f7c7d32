// Package client provides the database client handles used by the lifecycle
// manager and the CLI: an embedded SQLite client for local development and a
// token-authenticated client for managed remote databases.
package client

import (
	"context"
	"database/sql"
	"fmt"
)

// Statement is one SQL statement with optional bind arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Result reports the outcome of a single statement.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Client executes statements against a database. Batch has all-or-nothing
// semantics: either every statement applies or none do.
type Client interface {
	Run(ctx context.Context, stmt Statement) (Result, error)
	Batch(ctx context.Context, stmts []Statement) ([]Result, error)
	Close() error
}

// runOne executes a single statement outside any transaction.
func runOne(ctx context.Context, db *sql.DB, stmt Statement) (Result, error) {
	res, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return Result{}, err
	}
	return collectResult(res), nil
}

// runBatch executes all statements inside one transaction, rolling back on
// the first failure. Errors carry the position of the failing statement.
func runBatch(ctx context.Context, db *sql.DB, stmts []Statement) ([]Result, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	results := make([]Result, 0, len(stmts))
	for i, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("batch statement %d: %w", i, err)
		}
		results = append(results, collectResult(res))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return results, nil
}

// collectResult reads what the driver exposes; drivers without support for
// affected rows or insert ids report zero values.
func collectResult(res sql.Result) Result {
	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out
}
