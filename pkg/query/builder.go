package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField names one ORDER BY column by its logical field name; the
// projection resolves it to a qualified column at build time.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields splits a comma-separated sort expression into sort
// fields. A leading "-" marks a field descending: "name,-createdAt".
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		desc := false
		if rest, ok := strings.CutPrefix(name, "-"); ok {
			name, desc = rest, true
		}
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates WHERE conditions and ordering against a projection
// and renders them as parameterized SQL. Placeholders are numbered in the
// order conditions are added.
type Builder struct {
	proj        *ProjectionMap
	where       []string
	args        []any
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder over the projection. The default sort
// applies whenever OrderByFields is never called.
func NewBuilder(proj *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		proj:        proj,
		defaultSort: defaultSort,
	}
}

// bind registers an argument and returns its placeholder.
func (b *Builder) bind(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

// WhereContains adds a case-insensitive substring match. Nil and empty
// values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}

	col := b.proj.Column(field)
	b.where = append(b.where, fmt.Sprintf("%s ILIKE %s", col, b.bind("%"+*value+"%")))
	return b
}

// WhereEquals adds an equality condition. Nil values, typed nil pointers
// included, add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}

	col := b.proj.Column(field)
	b.where = append(b.where, fmt.Sprintf("%s = %s", col, b.bind(value)))
	return b
}

// WhereIn restricts a field to a set of values. Empty sets add nothing.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}

	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}

	col := b.proj.Column(field)
	b.where = append(b.where, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")))
	return b
}

// WhereNullable adds an equality condition, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.proj.Column(field)
	if isNil(value) {
		b.where = append(b.where, col+" IS NULL")
	} else {
		b.where = append(b.where, fmt.Sprintf("%s = %s", col, b.bind(value)))
	}
	return b
}

// WhereSearch ORs a case-insensitive substring match across the given
// fields. Nil and empty searches add nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE %s", b.proj.Column(field), b.bind(pattern))
	}

	b.where = append(b.where, "("+strings.Join(clauses, " OR ")+")")
	return b
}

// OrderByFields replaces the default sort with an explicit one.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// Build renders a SELECT with the accumulated conditions and ordering.
func (b *Builder) Build() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.proj.Columns(),
		b.proj.From(),
		b.whereClause(),
		b.orderClause(),
	)
	return sql, b.args
}

// BuildCount renders a COUNT(*) with the accumulated conditions.
func (b *Builder) BuildCount() (string, []any) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.proj.From(), b.whereClause())
	return sql, b.args
}

// BuildPage renders one page of the ordered SELECT.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.proj.Columns(),
		b.proj.From(),
		b.whereClause(),
		b.orderClause(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, b.args
}

// BuildSingle renders a lookup of one record by its identifier field,
// ignoring any accumulated conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.proj.Columns(),
		b.proj.From(),
		b.proj.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull renders the conditioned SELECT capped at one row.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s LIMIT 1",
		b.proj.Columns(),
		b.proj.From(),
		b.whereClause(),
	)
	return sql, b.args
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", b.proj.Column(f.Field), dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// isNil reports nil-ness through interfaces, catching typed nil pointers
// that a plain comparison misses.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
