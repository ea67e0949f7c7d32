package schema

import (
	"errors"
	"fmt"
)

// Validate checks a set of table definitions for structural problems. All
// violations are collected and returned joined, so a single reload surfaces
// every error at once.
func Validate(tables []*Table) error {
	var errs []error

	seenTables := make(map[string]bool, len(tables))
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if seenTables[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate table %q", t.Name))
			continue
		}
		seenTables[t.Name] = true
		byName[t.Name] = t
	}

	for _, t := range tables {
		errs = append(errs, validateTable(t, byName)...)
	}

	return errors.Join(errs...)
}

func validateTable(t *Table, byName map[string]*Table) []error {
	var errs []error

	if len(t.Columns) == 0 {
		errs = append(errs, fmt.Errorf("table %q has no columns", t.Name))
	}

	seenCols := make(map[string]bool, len(t.Columns))
	pkCount := 0
	for _, c := range t.Columns {
		if seenCols[c.Name] {
			errs = append(errs, fmt.Errorf("table %q: duplicate column %q", t.Name, c.Name))
		}
		seenCols[c.Name] = true

		if c.PrimaryKey {
			pkCount++
			if c.Optional {
				errs = append(errs, fmt.Errorf("table %q: primary key column %q cannot be optional", t.Name, c.Name))
			}
		}

		if ref := c.References; ref != nil {
			target, ok := byName[ref.Table]
			if !ok {
				errs = append(errs, fmt.Errorf("table %q: column %q references unknown table %q", t.Name, c.Name, ref.Table))
				continue
			}
			refCol := target.Column(ref.Column)
			if refCol == nil {
				errs = append(errs, fmt.Errorf("table %q: column %q references unknown column %s.%s", t.Name, c.Name, ref.Table, ref.Column))
				continue
			}
			if refCol.Type != c.Type {
				errs = append(errs, fmt.Errorf("table %q: column %q (%s) references %s.%s of mismatched type %s",
					t.Name, c.Name, c.Type, ref.Table, ref.Column, refCol.Type))
			}
		}
	}

	if pkCount > 1 {
		errs = append(errs, fmt.Errorf("table %q has %d primary key columns, at most one is allowed", t.Name, pkCount))
	}

	seenIdx := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if seenIdx[idx.Name] {
			errs = append(errs, fmt.Errorf("table %q: duplicate index %q", t.Name, idx.Name))
		}
		seenIdx[idx.Name] = true

		if len(idx.Columns) == 0 {
			errs = append(errs, fmt.Errorf("table %q: index %q has no columns", t.Name, idx.Name))
		}
		for _, col := range idx.Columns {
			if !seenCols[col] {
				errs = append(errs, fmt.Errorf("table %q: index %q covers unknown column %q", t.Name, idx.Name, col))
			}
		}
	}

	return errs
}
