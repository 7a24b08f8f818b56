// Package query builds parameterized SELECT statements over a single table
// whose columns are addressed by view property names.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references
// (alias.column) for one schema-qualified table.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a database column to a view property name. The raw column
// name also resolves, so clients may sort by "closing_rank" or "ClosingRank".
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[viewName] = qualified
	if _, taken := p.columns[column]; !taken {
		p.columns[column] = qualified
	}
	p.columnList = append(p.columnList, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the fully qualified table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Lookup returns the qualified column for a view property or column name.
func (p *ProjectionMap) Lookup(name string) (string, bool) {
	col, ok := p.columns[name]
	return col, ok
}

// Column returns the qualified column for name, or name itself when unmapped.
// Only use it with names fixed in code; client input goes through Lookup.
func (p *ProjectionMap) Column(name string) string {
	if col, ok := p.columns[name]; ok {
		return col
	}
	return name
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
