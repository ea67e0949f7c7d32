// Package schema holds the in-memory table definitions that drive both DDL
// generation and virtual module rendering.
package schema

// ColumnType is a primitive column type understood by every dialect.
type ColumnType string

const (
	Number  ColumnType = "number"
	Text    ColumnType = "text"
	Boolean ColumnType = "boolean"
	Date    ColumnType = "date"
	Json    ColumnType = "json"
)

// columnTypes is the set of valid ColumnType values.
var columnTypes = map[ColumnType]bool{
	Number:  true,
	Text:    true,
	Boolean: true,
	Date:    true,
	Json:    true,
}

// ValidColumnType reports whether s names a known column type.
func ValidColumnType(s string) bool {
	return columnTypes[ColumnType(s)]
}

// Reference is a foreign-key reference to a column of another table.
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Default holds a column default. Exactly one field is set. Expr carries a
// bare constant such as now, evaluated by the database.
type Default struct {
	String *string  `json:"string,omitempty"`
	Number *float64 `json:"number,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	Expr   string   `json:"expr,omitempty"`
}

// Column is a single column definition.
type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	Optional   bool       `json:"optional,omitempty"`
	Unique     bool       `json:"unique,omitempty"`
	PrimaryKey bool       `json:"primaryKey,omitempty"`
	Default    *Default   `json:"default,omitempty"`
	References *Reference `json:"references,omitempty"`
}

// Index is a secondary index over one or more columns.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// Table is one table definition. Columns keep their declaration order; the
// order tables were declared in is preserved by the surrounding slice, since
// schema authors use it to encode implicit dependency ordering.
type Table struct {
	Name    string    `json:"name"`
	Columns []*Column `json:"columns"`
	Indexes []*Index  `json:"indexes,omitempty"`
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Tables is a late-bound accessor producing the current table definitions.
// Consumers call it at the moment they need the data instead of holding a
// captured snapshot, so live-reload edits are always observed.
type Tables func() []*Table

// Fixed wraps a static slice in a Tables accessor.
func Fixed(tables []*Table) Tables {
	return func() []*Table { return tables }
}
