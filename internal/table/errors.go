package table

import (
	"errors"
	"fmt"
)

// Schema and row validation errors.
var (
	// ErrEmptyColumnName is returned when a schema column has no name.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned when a schema names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrUnknownColumn is returned when a column lookup fails.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrArity is returned when a row has a different number of values than the schema.
	ErrArity = errors.New("row length does not match schema")

	// ErrNull is returned when a value is missing. No column is nullable.
	ErrNull = errors.New("null value in non-nullable column")

	// ErrType is returned when a value has the wrong Go type for its column.
	ErrType = errors.New("value type does not match column kind")

	// ErrOutOfRange is returned when a numeric value does not fit the column kind.
	ErrOutOfRange = errors.New("value out of range for column kind")

	// ErrEnumLevel is returned when an enum value is not one of the declared levels.
	ErrEnumLevel = errors.New("value is not a declared enum level")

	// ErrHeader is returned by ReadCSV when the header does not match the schema.
	ErrHeader = errors.New("csv header does not match schema")
)

// RowError describes a validation failure for one cell.
// Row is the 0-based data row index; Line is the 1-based CSV line when the
// error comes from ReadCSV and zero otherwise.
type RowError struct {
	Row    int
	Line   int
	Column string
	Err    error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

// Unwrap returns the underlying error so errors.Is works on sentinels.
func (e *RowError) Unwrap() error {
	return e.Err
}
