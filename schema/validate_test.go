package schema

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "valid schema",
			input: `table Author {
	id number @id
	name text
}
table Post {
	id number @id
	authorId number @references(Author.id)
}`,
		},
		{
			name:    "duplicate table",
			input:   "table A {\n\tid number\n}\ntable A {\n\tid number\n}",
			wantErr: `duplicate table "A"`,
		},
		{
			name:    "duplicate column",
			input:   "table A {\n\tid number\n\tid text\n}",
			wantErr: `duplicate column "id"`,
		},
		{
			name:    "table with no columns",
			input:   "table A {\n}",
			wantErr: "has no columns",
		},
		{
			name:    "reference to unknown table",
			input:   "table A {\n\tid number @references(B.id)\n}",
			wantErr: `references unknown table "B"`,
		},
		{
			name:    "reference to unknown column",
			input:   "table A {\n\tid number @id\n}\ntable B {\n\taId number @references(A.missing)\n}",
			wantErr: "references unknown column A.missing",
		},
		{
			name:    "reference type mismatch",
			input:   "table A {\n\tid number @id\n}\ntable B {\n\taId text @references(A.id)\n}",
			wantErr: "mismatched type",
		},
		{
			name:    "optional primary key",
			input:   "table A {\n\tid number? @id\n}",
			wantErr: "cannot be optional",
		},
		{
			name:    "two primary keys",
			input:   "table A {\n\ta number @id\n\tb number @id\n}",
			wantErr: "primary key columns",
		},
		{
			name:    "index over unknown column",
			input:   "table A {\n\tid number\n\t@@index(a_idx, [missing])\n}",
			wantErr: `covers unknown column "missing"`,
		},
		{
			name:    "duplicate index",
			input:   "table A {\n\tid number\n\t@@index(a_idx, [id])\n\t@@index(a_idx, [id])\n}",
			wantErr: `duplicate index "a_idx"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := ParseString("config.adb", tt.input)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			err = Validate(tables)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want substring %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

// A forward reference in declaration order is legal: constraint checking is
// the database's concern, validation only needs the target to exist in the
// same snapshot.
func TestValidateForwardReference(t *testing.T) {
	tables := MustParseString("config.adb", `table B {
	id number @id
	aId number @references(A.id)
}
table A {
	id number @id
}`)
	if err := Validate(tables); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
