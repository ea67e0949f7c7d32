package sqlgen

import (
	"strings"
	"testing"

	"github.com/xshadowlegendx/astro-db/schema"
)

func strptr(s string) *string { return &s }

func sampleTable() *schema.Table {
	return &schema.Table{
		Name: "Author",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.Number, PrimaryKey: true},
			{Name: "name", Type: schema.Text},
			{Name: "bio", Type: schema.Text, Optional: true, Default: &schema.Default{String: strptr("none")}},
		},
		Indexes: []*schema.Index{
			{Name: "author_name_idx", Columns: []string{"name"}, Unique: true},
		},
	}
}

func TestNewDialect(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{provider: "sqlite", wantName: "sqlite"},
		{provider: "postgres", wantName: "postgres"},
		{provider: "postgresql", wantName: "postgres"},
		{provider: "mysql", wantName: "mysql"},
		{provider: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := New(tt.provider)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.wantName)
			}
		})
	}
}

func TestCreateTableSQLite(t *testing.T) {
	d, _ := New("sqlite")
	got, err := CreateTable(d, sampleTable())
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	want := `CREATE TABLE "Author" ("id" INTEGER PRIMARY KEY, "name" TEXT NOT NULL, "bio" TEXT DEFAULT 'none')`
	if got != want {
		t.Errorf("CreateTable() =\n%s\nwant\n%s", got, want)
	}
}

func TestCreateTableForeignKey(t *testing.T) {
	post := &schema.Table{
		Name: "Post",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.Number, PrimaryKey: true},
			{Name: "authorId", Type: schema.Number, References: &schema.Reference{Table: "Author", Column: "id"}},
		},
	}

	tests := []struct {
		provider string
		want     string
	}{
		{
			provider: "sqlite",
			want:     `"authorId" INTEGER NOT NULL REFERENCES "Author"("id")`,
		},
		{
			provider: "postgres",
			want:     `"authorId" NUMERIC NOT NULL REFERENCES "Author"("id") DEFERRABLE INITIALLY IMMEDIATE`,
		},
		{
			provider: "mysql",
			want:     "`authorId` DOUBLE NOT NULL REFERENCES `Author`(`id`)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, _ := New(tt.provider)
			got, err := CreateTable(d, post)
			if err != nil {
				t.Fatalf("CreateTable() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("CreateTable() = %s, want substring %s", got, tt.want)
			}
		})
	}
}

func TestDropTable(t *testing.T) {
	d, _ := New("sqlite")
	got := DropTable(d, sampleTable())
	want := `DROP TABLE IF EXISTS "Author"`
	if got != want {
		t.Errorf("DropTable() = %q, want %q", got, want)
	}
}

func TestCreateIndexes(t *testing.T) {
	d, _ := New("sqlite")
	got := CreateIndexes(d, sampleTable())
	if len(got) != 1 {
		t.Fatalf("CreateIndexes() returned %d statements, want 1", len(got))
	}
	want := `CREATE UNIQUE INDEX "author_name_idx" ON "Author" ("name")`
	if got[0] != want {
		t.Errorf("CreateIndexes()[0] = %q, want %q", got[0], want)
	}
}

func TestDeferForeignKeys(t *testing.T) {
	tests := []struct {
		provider    string
		want        string
		wantRestore string
	}{
		{provider: "sqlite", want: "PRAGMA defer_foreign_keys = TRUE"},
		{provider: "postgres", want: "SET CONSTRAINTS ALL DEFERRED"},
		{provider: "mysql", want: "SET FOREIGN_KEY_CHECKS = 0", wantRestore: "SET FOREIGN_KEY_CHECKS = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, _ := New(tt.provider)
			if got := d.DeferForeignKeys(); got != tt.want {
				t.Errorf("DeferForeignKeys() = %q, want %q", got, tt.want)
			}
			if got := d.RestoreForeignKeys(); got != tt.wantRestore {
				t.Errorf("RestoreForeignKeys() = %q, want %q", got, tt.wantRestore)
			}
		})
	}
}

func TestMySQLConstrainedText(t *testing.T) {
	d, _ := New("mysql")
	table := &schema.Table{
		Name: "User",
		Columns: []*schema.Column{
			{Name: "email", Type: schema.Text, PrimaryKey: true},
			{Name: "name", Type: schema.Text},
		},
	}
	got, err := CreateTable(d, table)
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	if !strings.Contains(got, "`email` VARCHAR(255) PRIMARY KEY") {
		t.Errorf("CreateTable() = %s, want bounded type for constrained text", got)
	}
	if !strings.Contains(got, "`name` TEXT NOT NULL") {
		t.Errorf("CreateTable() = %s, want plain TEXT for unconstrained text", got)
	}
}

func TestDefaultRendering(t *testing.T) {
	d, _ := New("sqlite")
	num := 42.0
	bt := true
	table := &schema.Table{
		Name: "T",
		Columns: []*schema.Column{
			{Name: "n", Type: schema.Number, Default: &schema.Default{Number: &num}},
			{Name: "b", Type: schema.Boolean, Default: &schema.Default{Bool: &bt}},
			{Name: "d", Type: schema.Date, Default: &schema.Default{Expr: "now"}},
			{Name: "s", Type: schema.Text, Default: &schema.Default{String: strptr("it's")}},
		},
	}
	got, err := CreateTable(d, table)
	if err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	for _, want := range []string{
		`"n" INTEGER NOT NULL DEFAULT 42`,
		`"b" INTEGER NOT NULL DEFAULT 1`,
		`"d" TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		`"s" TEXT NOT NULL DEFAULT 'it''s'`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CreateTable() = %s, want substring %s", got, want)
		}
	}
}

func TestUnsupportedDefaultExpr(t *testing.T) {
	d, _ := New("sqlite")
	table := &schema.Table{
		Name:    "T",
		Columns: []*schema.Column{{Name: "d", Type: schema.Date, Default: &schema.Default{Expr: "tomorrow"}}},
	}
	if _, err := CreateTable(d, table); err == nil {
		t.Error("CreateTable() error = nil, want error for unsupported expression")
	}
}
