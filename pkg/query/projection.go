// Package query builds parameterized SQL against logical field names, so
// repositories can speak in view properties while the database sees
// qualified columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap resolves logical field names to alias-qualified columns
// for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap creates an empty projection for schema.table under the
// given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project maps a table column to its logical field name. Declaration order
// fixes the SELECT column order.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the aliased table reference for a FROM clause.
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a logical field to its qualified column. Unmapped names
// pass through unchanged.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Columns returns the projected columns as a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// ColumnList returns the projected columns in declaration order.
func (p *ProjectionMap) ColumnList() []string {
	return p.ordered
}
