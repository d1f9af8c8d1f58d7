package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Layout.Validate() and
// can be matched with errors.Is().
var (
	// ErrNoDataset is returned when no dataset path is specified.
	ErrNoDataset = errors.New("no dataset specified: provide the path of a JSON lines export")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidSortColumn is returned when --sort names a column the scene
	// table does not have.
	ErrInvalidSortColumn = errors.New("invalid sort column: must be one of scene, parent, mean, n")

	// ErrInvalidQuizOffset is returned when the quiz offset is negative.
	ErrInvalidQuizOffset = errors.New("invalid quiz offset: must be non-negative")

	// ErrInvalidTrailingSteps is returned when the trailing step count is negative.
	ErrInvalidTrailingSteps = errors.New("invalid trailing steps: must be non-negative")

	// ErrInvalidMissingQuiz is returned for an unknown missing quiz policy.
	ErrInvalidMissingQuiz = errors.New("invalid missingQuiz policy: must be keep, skip or fail")

	// ErrEmptyTrialType is returned when a trial type name is empty.
	ErrEmptyTrialType = errors.New("trial type names must not be empty")
)
