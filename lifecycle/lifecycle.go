// Package lifecycle keeps a database in sync with the in-memory table
// definitions by dropping and recreating the entire schema in one atomic
// batch. Local development schema is disposable: every resync rebuilds it
// from scratch and row data is repopulated by seed scripts, never migrated.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/internal/debug"
	"github.com/xshadowlegendx/astro-db/schema"
	"github.com/xshadowlegendx/astro-db/sqlgen"
)

// Synchronizer rebuilds a database schema from table definitions.
type Synchronizer interface {
	Resync(ctx context.Context, c client.Client, tables []*schema.Table) error
}

// Manager implements Synchronizer for one SQL dialect.
type Manager struct {
	dialect sqlgen.Dialect

	mu    sync.Mutex
	locks map[client.Client]*sync.Mutex
}

// NewManager creates a lifecycle manager rendering DDL with the given
// dialect.
func NewManager(d sqlgen.Dialect) *Manager {
	return &Manager{
		dialect: d,
		locks:   make(map[client.Client]*sync.Mutex),
	}
}

// Resync drops and recreates every table in one atomic batch. The batch
// starts with the dialect's defer-foreign-keys statement, followed by each
// table's DROP IF EXISTS, CREATE, and CREATE INDEX statements in table
// declaration order; deferring FK checks to commit time means a table may
// reference one that is dropped later in the batch and still create cleanly.
//
// Calls are serialized per client so concurrent reload triggers cannot
// interleave two DROP/CREATE batches. Errors are surfaced verbatim from the
// client, position-tagged by the batch executor; schema errors are developer
// errors and are never retried.
func (m *Manager) Resync(ctx context.Context, c client.Client, tables []*schema.Table) error {
	lock := m.clientLock(c)
	lock.Lock()
	defer lock.Unlock()

	stmts, err := m.buildStatements(tables)
	if err != nil {
		return err
	}

	debug.Debug("resynchronizing schema", "dialect", m.dialect.Name(), "tables", len(tables), "statements", len(stmts))

	if _, err := c.Batch(ctx, stmts); err != nil {
		return fmt.Errorf("schema resync failed: %w", err)
	}
	return nil
}

// buildStatements renders the full resync batch.
func (m *Manager) buildStatements(tables []*schema.Table) ([]client.Statement, error) {
	stmts := []client.Statement{{SQL: m.dialect.DeferForeignKeys()}}

	for _, t := range tables {
		stmts = append(stmts, client.Statement{SQL: sqlgen.DropTable(m.dialect, t)})

		create, err := sqlgen.CreateTable(m.dialect, t)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, client.Statement{SQL: create})

		for _, idx := range sqlgen.CreateIndexes(m.dialect, t) {
			stmts = append(stmts, client.Statement{SQL: idx})
		}
	}

	if restore := m.dialect.RestoreForeignKeys(); restore != "" {
		stmts = append(stmts, client.Statement{SQL: restore})
	}

	return stmts, nil
}

func (m *Manager) clientLock(c client.Client) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[c]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[c] = lock
	}
	return lock
}
