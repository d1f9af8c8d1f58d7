package analysis

import "errors"

var (
	// ErrUnknownSortColumn is returned when a scene table is sorted by a
	// column it does not have.
	ErrUnknownSortColumn = errors.New("unknown sort column")

	// ErrMissingParent is returned when grouping a noticed table that has
	// not been through DeriveParent.
	ErrMissingParent = errors.New("noticed table has no parent column")
)
