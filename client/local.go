package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// LocalDBPath is the database file location relative to the project root.
const LocalDBPath = ".astro/content.db"

// LocalClient is the embedded SQLite client backing local development.
type LocalClient struct {
	db   *sql.DB
	path string
}

// LocalDSN builds the sqlite3 driver DSN for the database file under root.
// Foreign keys are enabled so deferred-FK batches still validate at commit.
func LocalDSN(root string) string {
	path := filepath.Join(root, filepath.FromSlash(LocalDBPath))
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// NewLocal opens (creating if needed) the database file under the project
// root. The connection pool is capped at one connection: SQLite serializes
// writers anyway, and a single connection keeps transaction-scoped pragmas
// attached to the session that runs the batch.
func NewLocal(root string) (*LocalClient, error) {
	path := filepath.Join(root, filepath.FromSlash(LocalDBPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", LocalDSN(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &LocalClient{db: db, path: path}, nil
}

// Path returns the on-disk location of the database file.
func (c *LocalClient) Path() string { return c.path }

func (c *LocalClient) Run(ctx context.Context, stmt Statement) (Result, error) {
	return runOne(ctx, c.db, stmt)
}

func (c *LocalClient) Batch(ctx context.Context, stmts []Statement) ([]Result, error) {
	return runBatch(ctx, c.db, stmts)
}

func (c *LocalClient) Close() error {
	return c.db.Close()
}
