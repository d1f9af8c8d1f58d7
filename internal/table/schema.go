package table

import (
	"fmt"
	"slices"
)

// Kind is the value type of a column.
type Kind int

const (
	// Uint8 stores uint8 values.
	Uint8 Kind = iota
	// Uint16 stores uint16 values.
	Uint16
	// Float32 stores float32 values.
	Float32
	// Bool stores bool values.
	Bool
	// String stores string values. The empty string is a value, not a null.
	String
	// Enum stores one of the column's declared Levels as a string.
	Enum
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Float32:
		return "f32"
	case Bool:
		return "bool"
	case String:
		return "str"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column describes one named, typed column.
type Column struct {
	// Name is the CSV header name of the column.
	Name string

	// Kind is the column value type.
	Kind Kind

	// Levels lists the allowed values of an Enum column in sort order.
	// It is ignored for other kinds.
	Levels []string
}

// levelIndex returns the position of v in the column's levels, or -1.
func (c Column) levelIndex(v string) int {
	return slices.Index(c.Levels, v)
}

// Schema is an ordered, immutable list of columns.
// The zero value is an empty schema.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema creates a Schema from the given columns.
// Column names must be non-empty and unique.
func NewSchema(columns ...Column) (Schema, error) {
	s := Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c.Name == "" {
			return Schema{}, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, dup := s.index[c.Name]; dup {
			return Schema{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		c.Levels = slices.Clone(c.Levels)
		s.columns[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// It is intended for package-level schema declarations.
func MustSchema(columns ...Column) Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the columns in order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	for i, c := range s.columns {
		c.Levels = slices.Clone(c.Levels)
		out[i] = c
	}
	return out
}

// Column returns the column at position i.
func (s Schema) Column(i int) Column {
	c := s.columns[i]
	c.Levels = slices.Clone(c.Levels)
	return c
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

// Equal reports whether two schemas have the same columns in the same order.
func (s Schema) Equal(other Schema) bool {
	return slices.EqualFunc(s.columns, other.columns, func(a, b Column) bool {
		return a.Name == b.Name && a.Kind == b.Kind && slices.Equal(a.Levels, b.Levels)
	})
}
