package sqlgen

import (
	"fmt"

	"github.com/xshadowlegendx/astro-db/schema"
)

// sqliteDialect renders DDL for the embedded SQLite store.
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (sqliteDialect) ColumnType(c *schema.Column) (string, error) {
	switch c.Type {
	case schema.Number:
		return "INTEGER", nil
	case schema.Text:
		return "TEXT", nil
	case schema.Boolean:
		return "INTEGER", nil
	case schema.Date:
		return "TEXT", nil
	case schema.Json:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("sqlite: unsupported column type %q", c.Type)
	}
}

func (sqliteDialect) BoolLiteral(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (sqliteDialect) ExprDefault(name string) (string, error) {
	switch name {
	case "now":
		return "CURRENT_TIMESTAMP", nil
	default:
		return "", fmt.Errorf("sqlite: unsupported default expression %q", name)
	}
}

func (sqliteDialect) ForeignKeySuffix() string { return "" }

// DeferForeignKeys postpones FK checking until the enclosing transaction
// commits, so DROP/CREATE pairs can run in any order within one batch.
func (sqliteDialect) DeferForeignKeys() string {
	return "PRAGMA defer_foreign_keys = TRUE"
}

// RestoreForeignKeys is empty: the pragma resets itself at commit.
func (sqliteDialect) RestoreForeignKeys() string { return "" }
