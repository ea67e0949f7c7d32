package sqlgen

import (
	"fmt"

	"github.com/xshadowlegendx/astro-db/schema"
)

// postgresDialect renders DDL for managed PostgreSQL databases.
type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (postgresDialect) ColumnType(c *schema.Column) (string, error) {
	switch c.Type {
	case schema.Number:
		return "NUMERIC", nil
	case schema.Text:
		return "TEXT", nil
	case schema.Boolean:
		return "BOOLEAN", nil
	case schema.Date:
		return "TIMESTAMPTZ", nil
	case schema.Json:
		return "JSONB", nil
	default:
		return "", fmt.Errorf("postgres: unsupported column type %q", c.Type)
	}
}

func (postgresDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (postgresDialect) ExprDefault(name string) (string, error) {
	switch name {
	case "now":
		return "now()", nil
	default:
		return "", fmt.Errorf("postgres: unsupported default expression %q", name)
	}
}

// ForeignKeySuffix marks FKs deferrable so SET CONSTRAINTS ALL DEFERRED can
// postpone them for the push batch.
func (postgresDialect) ForeignKeySuffix() string {
	return " DEFERRABLE INITIALLY IMMEDIATE"
}

func (postgresDialect) DeferForeignKeys() string {
	return "SET CONSTRAINTS ALL DEFERRED"
}

// RestoreForeignKeys is empty: SET CONSTRAINTS is transaction-scoped and
// the deferred constraints are validated at commit.
func (postgresDialect) RestoreForeignKeys() string { return "" }
