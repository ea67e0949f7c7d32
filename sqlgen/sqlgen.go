// Package sqlgen generates DDL statements from table definitions.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xshadowlegendx/astro-db/schema"
)

// Dialect renders the provider-specific pieces of DDL.
type Dialect interface {
	// Name returns the provider name the dialect was built for.
	Name() string
	// QuoteIdent quotes a table, column, or index identifier.
	QuoteIdent(name string) string
	// ColumnType maps a column to its SQL type.
	ColumnType(c *schema.Column) (string, error)
	// BoolLiteral renders a boolean default literal.
	BoolLiteral(v bool) string
	// ExprDefault maps a bare default expression such as now to SQL.
	ExprDefault(name string) (string, error)
	// ForeignKeySuffix is appended to REFERENCES clauses.
	ForeignKeySuffix() string
	// DeferForeignKeys returns the statement that postpones
	// referential-integrity checking for the current batch.
	DeferForeignKeys() string
	// RestoreForeignKeys returns a statement re-enabling enforcement at
	// the end of the batch, or empty when DeferForeignKeys is
	// transaction-scoped and needs no counterpart.
	RestoreForeignKeys() string
}

// New creates a dialect for the given provider.
func New(provider string) (Dialect, error) {
	switch provider {
	case "sqlite":
		return sqliteDialect{}, nil
	case "postgresql", "postgres":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// DropTable returns a DROP TABLE IF EXISTS statement for the table.
func DropTable(d Dialect, t *schema.Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(t.Name))
}

// CreateTable returns the CREATE TABLE statement for the table. Columns are
// rendered in declaration order.
func CreateTable(d Dialect, t *schema.Table) (string, error) {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		rendered, err := renderColumn(d, c)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", t.Name, err)
		}
		cols = append(cols, rendered)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(t.Name), strings.Join(cols, ", ")), nil
}

// CreateIndexes returns one CREATE INDEX statement per index on the table,
// in declaration order.
func CreateIndexes(d Dialect, t *schema.Table) []string {
	stmts := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = d.QuoteIdent(c)
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
			unique, d.QuoteIdent(idx.Name), d.QuoteIdent(t.Name), strings.Join(cols, ", ")))
	}
	return stmts
}

func renderColumn(d Dialect, c *schema.Column) (string, error) {
	typ, err := d.ColumnType(c)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(d.QuoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(typ)

	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if !c.Optional {
		b.WriteString(" NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		b.WriteString(" UNIQUE")
	}

	if c.Default != nil {
		def, err := renderDefault(d, c.Default)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", c.Name, err)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(def)
	}

	if ref := c.References; ref != nil {
		b.WriteString(fmt.Sprintf(" REFERENCES %s(%s)%s",
			d.QuoteIdent(ref.Table), d.QuoteIdent(ref.Column), d.ForeignKeySuffix()))
	}

	return b.String(), nil
}

func renderDefault(d Dialect, def *schema.Default) (string, error) {
	switch {
	case def.String != nil:
		return quoteString(*def.String), nil
	case def.Number != nil:
		return strconv.FormatFloat(*def.Number, 'g', -1, 64), nil
	case def.Bool != nil:
		return d.BoolLiteral(*def.Bool), nil
	case def.Expr != "":
		return d.ExprDefault(def.Expr)
	default:
		return "", fmt.Errorf("empty default value")
	}
}

// quoteString renders a single-quoted SQL string literal.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
