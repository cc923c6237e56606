// Package rowmap converts result rows into domain entities. A Mapper addresses
// columns either by the entity's declared field names or through an explicit
// alias table, and maps each row all-or-nothing.
package rowmap

import (
	"errors"
	"fmt"
	"peopledb/pkg/domain"
	"sort"
)

// ErrMissingColumn marks a row that lacks a column the entity requires.
var ErrMissingColumn = errors.New("column missing from row")

// Row is a single result row addressed by column name.
type Row interface {
	Value(column string) (any, bool)
}

// Aliases maps a declared field name to the column name a statement returns
// for it.
type Aliases map[string]string

// Field binds one declared field name to a typed setter on T.
type Field[T any] struct {
	name   string
	assign func(dst *T, v any) error
}

// Int32 binds an int32 field.
func Int32[T any](name string, ptr func(*T) *int32) Field[T] {
	return Field[T]{name: name, assign: func(dst *T, v any) error {
		n, err := toInt32(v)
		if err != nil {
			return err
		}
		*ptr(dst) = n
		return nil
	}}
}

// Int16 binds an int16 field.
func Int16[T any](name string, ptr func(*T) *int16) Field[T] {
	return Field[T]{name: name, assign: func(dst *T, v any) error {
		n, err := toInt16(v)
		if err != nil {
			return err
		}
		*ptr(dst) = n
		return nil
	}}
}

// String binds a text field.
func String[T any](name string, ptr func(*T) *string) Field[T] {
	return Field[T]{name: name, assign: func(dst *T, v any) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		*ptr(dst) = s
		return nil
	}}
}

// Bool binds a boolean field.
func Bool[T any](name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{name: name, assign: func(dst *T, v any) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		*ptr(dst) = b
		return nil
	}}
}

// Mapper maps rows onto T through a fixed set of fields.
type Mapper[T any] struct {
	entity  domain.EntityType
	fields  []Field[T]
	columns []string
}

// New builds a mapper that reads each field from the column of the same name.
func New[T any](entity domain.EntityType, fields ...Field[T]) Mapper[T] {
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.name
	}
	return Mapper[T]{entity: entity, fields: fields, columns: columns}
}

// Entity returns the entity type the mapper produces.
func (m Mapper[T]) Entity() domain.EntityType { return m.entity }

// Columns returns the column read for each field, in field order.
func (m Mapper[T]) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// WithAliases returns a mapper that reads every field from its aliased column.
// The table must name every field exactly once and nothing else.
func (m Mapper[T]) WithAliases(aliases Aliases) (Mapper[T], error) {
	known := make(map[string]bool, len(m.fields))
	columns := make([]string, len(m.fields))
	var missing []string
	for i, f := range m.fields {
		known[f.name] = true
		alias, ok := aliases[f.name]
		if !ok || alias == "" {
			missing = append(missing, f.name)
			continue
		}
		columns[i] = alias
	}
	var unknown []string
	for field := range aliases {
		if !known[field] {
			unknown = append(unknown, field)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 {
		sort.Strings(unknown)
		return Mapper[T]{}, fmt.Errorf("rowmap: %s alias table: missing fields %v, unknown fields %v", m.entity, missing, unknown)
	}
	return Mapper[T]{entity: m.entity, fields: m.fields, columns: columns}, nil
}

// Map produces one entity from row, or a *domain.MappingError naming the
// first column that is absent or cannot be coerced.
func (m Mapper[T]) Map(row Row) (T, error) {
	var out T
	for i, f := range m.fields {
		col := m.columns[i]
		v, ok := row.Value(col)
		if !ok {
			var zero T
			return zero, &domain.MappingError{Entity: m.entity, Column: col, Err: ErrMissingColumn}
		}
		if err := f.assign(&out, v); err != nil {
			var zero T
			return zero, &domain.MappingError{Entity: m.entity, Column: col, Err: err}
		}
	}
	return out, nil
}

// MapAll maps every row, failing on the first row that does not map. The
// result is never nil.
func MapAll[T any, R Row](m Mapper[T], rows []R) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := m.Map(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
