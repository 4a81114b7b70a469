// Package table is the generic tabular component used by every list page:
// column descriptors, free-text and option filters on one selected column,
// string-wise sorting and fixed-size pagination over rows it never mutates.
package table

import "reflect"

// Type is the advisory kind of a column, used to pick a default formatter
// when the column has no Render override.
type Type string

const (
	TypeText       Type = "text"
	TypeNumber     Type = "number"
	TypeDate       Type = "date"
	TypeCurrency   Type = "currency"
	TypePercentage Type = "percentage"
	TypeStatus     Type = "status"
)

// Option is one entry of an enumerated filter. A column with options is
// filtered by exact match on Value instead of substring search.
type Option struct {
	Label string
	Value any
}

// Column describes how one field of a row of type R is displayed and
// filtered.
type Column[R any] struct {
	Accessor   string
	Header     string
	Type       Type
	Filterable bool
	Options    []Option

	// Value extracts the raw cell value. When nil the row is looked up by
	// Accessor if it is a Record, a map[string]any or implements Keyed.
	Value func(row R) any

	// Render overrides the Type based formatter.
	Render func(value any, row R) string
}

// Keyed is implemented by rows that can be read by string key.
type Keyed interface {
	Field(key string) (any, bool)
}

// Record is an untyped row.
type Record map[string]any

// Field implements Keyed.
func (r Record) Field(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// ValueOf returns the raw value of col for row. Missing keys and accessor
// panics yield nil.
func ValueOf[R any](col Column[R], row R) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	if col.Value != nil {
		return col.Value(row)
	}
	switch r := any(row).(type) {
	case Keyed:
		v, _ = r.Field(col.Accessor)
		return v
	case map[string]any:
		return r[col.Accessor]
	}
	return nil
}

// Cell returns the formatted value of col for row. It never panics; a
// missing value renders as "".
func Cell[R any](col Column[R], row R) (s string) {
	v := ValueOf(col, row)
	if col.Render != nil {
		defer func() {
			if recover() != nil {
				s = ""
			}
		}()
		return col.Render(v, row)
	}
	return Format(col.Type, v)
}

// dedupe keeps the last descriptor for a repeated accessor, in the position
// of the first occurrence.
func dedupe[R any](cols []Column[R]) ([]Column[R], map[string]int) {
	out := make([]Column[R], 0, len(cols))
	index := make(map[string]int, len(cols))
	for _, c := range cols {
		if i, ok := index[c.Accessor]; ok {
			out[i] = c
			continue
		}
		index[c.Accessor] = len(out)
		out = append(out, c)
	}
	return out, index
}

// Pick returns the columns named by accessors, in that order.
func Pick[R any](cols []Column[R], accessors []string) ([]Column[R], error) {
	if len(accessors) == 0 {
		return cols, nil
	}
	deduped, index := dedupe(cols)
	out := make([]Column[R], 0, len(accessors))
	for _, a := range accessors {
		i, ok := index[a]
		if !ok {
			return nil, &UnknownColumnError{Accessor: a}
		}
		out = append(out, deduped[i])
	}
	return out, nil
}

// Truthy reports whether v counts as "on" for status gating: true, non-zero
// numbers, non-empty strings and any other non-nil value.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}
