package table

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Table is a growable list of rows that all conform to one Schema.
// Stored values always have the canonical Go type of their column kind:
// uint8, uint16, float32, bool or string (Enum and String).
type Table struct {
	schema Schema
	rows   [][]any
}

// New creates an empty table with the given schema.
func New(schema Schema) *Table {
	return &Table{schema: schema}
}

// Schema returns the table schema.
func (t *Table) Schema() Schema {
	return t.schema
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append validates values against the schema and adds them as a new row.
// Values may be any integer or float type that fits the column kind, and
// pointers are dereferenced; a nil pointer or nil interface is a null and
// is rejected. On error the table is left unchanged.
func (t *Table) Append(values ...any) error {
	if len(values) != t.schema.Len() {
		return fmt.Errorf("row %d: %w: got %d values, want %d",
			len(t.rows), ErrArity, len(values), t.schema.Len())
	}

	row := make([]any, len(values))
	for i, v := range values {
		col := t.schema.columns[i]
		cv, err := coerce(col, v)
		if err != nil {
			return &RowError{Row: len(t.rows), Column: col.Name, Err: err}
		}
		row[i] = cv
	}

	t.rows = append(t.rows, row)
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	return slices.Clone(t.rows[i])
}

// Uint8s returns the named Uint8 column.
func (t *Table) Uint8s(name string) ([]uint8, error) {
	return columnOf[uint8](t, name, Uint8)
}

// Uint16s returns the named Uint16 column.
func (t *Table) Uint16s(name string) ([]uint16, error) {
	return columnOf[uint16](t, name, Uint16)
}

// Float32s returns the named Float32 column.
func (t *Table) Float32s(name string) ([]float32, error) {
	return columnOf[float32](t, name, Float32)
}

// Bools returns the named Bool column.
func (t *Table) Bools(name string) ([]bool, error) {
	return columnOf[bool](t, name, Bool)
}

// Strings returns the named String or Enum column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.schema.Index(name)
	if err != nil {
		return nil, err
	}
	if k := t.schema.columns[c].Kind; k != String && k != Enum {
		return nil, fmt.Errorf("column %q is %s: %w", name, k, ErrType)
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c].(string) //nolint:forcetypeassert // guaranteed by Append
	}
	return out, nil
}

// columnOf extracts a typed column after checking its kind.
func columnOf[T any](t *Table, name string, kind Kind) ([]T, error) {
	c, err := t.schema.Index(name)
	if err != nil {
		return nil, err
	}
	if k := t.schema.columns[c].Kind; k != kind {
		return nil, fmt.Errorf("column %q is %s, not %s: %w", name, k, kind, ErrType)
	}
	out := make([]T, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c].(T) //nolint:forcetypeassert // guaranteed by Append
	}
	return out, nil
}

// Drop returns a new table without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	c, err := t.schema.Index(name)
	if err != nil {
		return nil, err
	}

	cols := t.schema.Columns()
	schema, err := NewSchema(slices.Delete(cols, c, c+1)...)
	if err != nil {
		return nil, err
	}

	out := &Table{schema: schema, rows: make([][]any, len(t.rows))}
	for i, row := range t.rows {
		out.rows[i] = slices.Delete(slices.Clone(row), c, c+1)
	}
	return out, nil
}

// WithColumn returns a new table with col appended, its value for each row
// computed by derive. Derived values are validated like appended ones.
func (t *Table) WithColumn(col Column, derive func(row []any) any) (*Table, error) {
	schema, err := NewSchema(append(t.schema.Columns(), col)...)
	if err != nil {
		return nil, err
	}

	out := New(schema)
	for _, row := range t.rows {
		v := derive(slices.Clone(row))
		if err := out.Append(append(slices.Clone(row), v)...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// coerce converts v into the canonical type for col, checking range.
func coerce(col Column, v any) (any, error) {
	if v == nil {
		return nil, ErrNull
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, ErrNull
		}
		rv = rv.Elem()
	}

	switch col.Kind {
	case Uint8:
		n, err := integer(rv, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return uint8(n), nil
	case Uint16:
		n, err := integer(rv, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return uint16(n), nil
	case Float32:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if math.IsInf(f, 0) || math.Abs(f) > math.MaxFloat32 {
				return nil, fmt.Errorf("%w: %v", ErrOutOfRange, f)
			}
			return float32(f), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float32(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float32(rv.Uint()), nil
		}
	case Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case String:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case Enum:
		if rv.Kind() == reflect.String {
			s := rv.String()
			if col.levelIndex(s) < 0 {
				return nil, fmt.Errorf("%w: %q not in %v", ErrEnumLevel, s, col.Levels)
			}
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %s for %s column", ErrType, rv.Type(), col.Kind)
}

// integer extracts a non-negative integer no larger than maxVal.
// Floats are accepted only when they hold an integral value.
func integer(rv reflect.Value, maxVal uint64) (uint64, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 || uint64(n) > maxVal {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
		}
		return uint64(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > maxVal {
			return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrType, f)
		}
		if f < 0 || f > float64(maxVal) {
			return 0, fmt.Errorf("%w: %v", ErrOutOfRange, f)
		}
		return uint64(f), nil
	default:
		return 0, fmt.Errorf("%w: %s is not numeric", ErrType, rv.Type())
	}
}
