package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// rawConfig is the raw parse tree that matches the grammar. It is converted
// to []*Table after parsing.
type rawConfig struct {
	Pos    lexer.Position
	Tables []*rawTable `@@*`
}

// rawTable is one table block.
type rawTable struct {
	Pos   lexer.Position
	Name  string     `"table" @Ident`
	Items []*rawItem `"{" @@* "}"`
}

// rawItem is a union of the declarations allowed inside a table block.
type rawItem struct {
	Pos    lexer.Position
	Index  *rawIndex  `@@`
	Column *rawColumn `| @@`
}

// rawIndex is a block-level @@index declaration.
type rawIndex struct {
	Pos     lexer.Position
	Name    string   `BlockAttr "index" "(" @Ident ","`
	Columns []string `"[" @Ident ("," @Ident)* "]"`
	Unique  bool     `("," @"unique")? ")"`
}

// rawColumn is a column declaration: name, type, optional marker, attributes.
type rawColumn struct {
	Pos      lexer.Position
	Name     string     `@Ident`
	Type     string     `@Ident`
	Optional bool       `@Question?`
	Attrs    []*rawAttr `@@*`
}

// rawAttr is a column attribute such as @id or @references(Post.id).
type rawAttr struct {
	Pos  lexer.Position
	Name string    `FieldAttr @Ident`
	Args []*rawArg `("(" @@ ("," @@)* ")")?`
}

// rawArg is one attribute argument.
type rawArg struct {
	Pos   lexer.Position
	Str   *string  `@String`
	Num   *float64 `| @Number`
	Ref   *rawRef  `| @@`
	Const *string  `| @Ident`
}

// rawRef is a Table.column reference.
type rawRef struct {
	Pos    lexer.Position
	Table  string `@Ident Dot`
	Column string `@Ident`
}

// parser is the participle parser instance.
var parser = participle.MustBuild[rawConfig](
	participle.Lexer(configLexer),
	participle.Elide("Whitespace", "Newline", "Comment", "MultiLineComment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// Parse parses a table definition file from an io.Reader.
func Parse(filename string, r io.Reader) ([]*Table, error) {
	raw, err := parser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return convertRawConfig(raw)
}

// ParseString parses a table definition file from a string.
func ParseString(filename, input string) ([]*Table, error) {
	return Parse(filename, strings.NewReader(input))
}

// MustParseString parses a table definition file, panicking on error.
func MustParseString(filename, input string) []*Table {
	tables, err := ParseString(filename, input)
	if err != nil {
		panic(err)
	}
	return tables
}

// convertRawConfig converts the raw parse tree to table definitions,
// preserving declaration order.
func convertRawConfig(raw *rawConfig) ([]*Table, error) {
	tables := make([]*Table, 0, len(raw.Tables))
	for _, rt := range raw.Tables {
		t := &Table{Name: rt.Name}
		for _, item := range rt.Items {
			switch {
			case item.Column != nil:
				col, err := convertColumn(item.Column)
				if err != nil {
					return nil, err
				}
				t.Columns = append(t.Columns, col)
			case item.Index != nil:
				t.Indexes = append(t.Indexes, &Index{
					Name:    item.Index.Name,
					Columns: item.Index.Columns,
					Unique:  item.Index.Unique,
				})
			}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func convertColumn(rc *rawColumn) (*Column, error) {
	if !ValidColumnType(rc.Type) {
		return nil, fmt.Errorf("%s: unknown column type %q for column %q", rc.Pos, rc.Type, rc.Name)
	}
	col := &Column{
		Name:     rc.Name,
		Type:     ColumnType(rc.Type),
		Optional: rc.Optional,
	}
	for _, attr := range rc.Attrs {
		switch attr.Name {
		case "id":
			col.PrimaryKey = true
		case "unique":
			col.Unique = true
		case "default":
			if len(attr.Args) != 1 {
				return nil, fmt.Errorf("%s: @default takes exactly one argument", attr.Pos)
			}
			def, err := convertDefault(attr.Args[0])
			if err != nil {
				return nil, err
			}
			col.Default = def
		case "references":
			if len(attr.Args) != 1 || attr.Args[0].Ref == nil {
				return nil, fmt.Errorf("%s: @references takes a single Table.column argument", attr.Pos)
			}
			col.References = &Reference{
				Table:  attr.Args[0].Ref.Table,
				Column: attr.Args[0].Ref.Column,
			}
		default:
			return nil, fmt.Errorf("%s: unknown attribute @%s on column %q", attr.Pos, attr.Name, rc.Name)
		}
	}
	return col, nil
}

func convertDefault(arg *rawArg) (*Default, error) {
	switch {
	case arg.Str != nil:
		return &Default{String: arg.Str}, nil
	case arg.Num != nil:
		return &Default{Number: arg.Num}, nil
	case arg.Const != nil:
		switch *arg.Const {
		case "true":
			v := true
			return &Default{Bool: &v}, nil
		case "false":
			v := false
			return &Default{Bool: &v}, nil
		default:
			return &Default{Expr: *arg.Const}, nil
		}
	default:
		return nil, fmt.Errorf("%s: unsupported @default argument", arg.Pos)
	}
}
