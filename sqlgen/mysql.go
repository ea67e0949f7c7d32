package sqlgen

import (
	"fmt"

	"github.com/xshadowlegendx/astro-db/schema"
)

// mysqlDialect renders DDL for managed MySQL databases.
type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

func (mysqlDialect) ColumnType(c *schema.Column) (string, error) {
	switch c.Type {
	case schema.Number:
		return "DOUBLE", nil
	case schema.Text:
		// TEXT cannot carry a PRIMARY KEY or UNIQUE constraint without a
		// prefix length, so constrained text columns get a bounded type.
		if c.PrimaryKey || c.Unique || c.References != nil {
			return "VARCHAR(255)", nil
		}
		return "TEXT", nil
	case schema.Boolean:
		return "BOOLEAN", nil
	case schema.Date:
		return "DATETIME", nil
	case schema.Json:
		return "JSON", nil
	default:
		return "", fmt.Errorf("mysql: unsupported column type %q", c.Type)
	}
}

func (mysqlDialect) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (mysqlDialect) ExprDefault(name string) (string, error) {
	switch name {
	case "now":
		return "CURRENT_TIMESTAMP", nil
	default:
		return "", fmt.Errorf("mysql: unsupported default expression %q", name)
	}
}

func (mysqlDialect) ForeignKeySuffix() string { return "" }

// DeferForeignKeys disables FK checking for the session. MySQL has no true
// deferred constraints: statements executed while checks are off are never
// re-validated at commit, so a dangling reference in the batch goes
// undetected. Weaker than the sqlite and postgres dialects.
func (mysqlDialect) DeferForeignKeys() string {
	return "SET FOREIGN_KEY_CHECKS = 0"
}

// RestoreForeignKeys re-enables checking at the end of the batch; the
// session variable would otherwise outlive the transaction on a pooled
// connection.
func (mysqlDialect) RestoreForeignKeys() string {
	return "SET FOREIGN_KEY_CHECKS = 1"
}
