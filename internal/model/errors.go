package model

import "errors"

// Row construction errors.
var (
	// ErrMissingField is returned when an event lacks a value a row column needs.
	ErrMissingField = errors.New("missing field")

	// ErrFieldType is returned when an event field has an unexpected JSON type.
	ErrFieldType = errors.New("unexpected field type")

	// ErrResponseType is returned when an event response has an unexpected JSON type.
	ErrResponseType = errors.New("unexpected response type")

	// ErrNoNoticeResponse is returned when a subject's timeline never produced
	// the button response that opens the notice row.
	ErrNoNoticeResponse = errors.New("no notice response in timeline")

	// ErrUnknownParent is returned by ParseParent for values other than Grouped and Alone.
	ErrUnknownParent = errors.New("unknown parent category")
)
