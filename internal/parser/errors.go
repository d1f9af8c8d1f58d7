package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuizPass is returned under the fail policy when a timeline has no
	// correctly answered comprehension quiz.
	ErrNoQuizPass = errors.New("no passed comprehension quiz in timeline")

	// ErrMissingAnswer is returned when a survey response lacks the
	// description question.
	ErrMissingAnswer = errors.New("survey response has no description answer")

	// ErrTooManySubjects is returned when uids would overflow 16 bits.
	ErrTooManySubjects = errors.New("too many subjects for a 16-bit uid")
)

// SubjectError names the subject a parsing failure belongs to.
type SubjectError struct {
	// UID is the subject's sequential id.
	UID uint16

	// Line is the 0-based input line the subject was decoded from.
	Line int

	// TrialIndex is the trial_index of the offending step, or -1 when the
	// failure is not tied to one step.
	TrialIndex int

	Err error
}

// Error implements the error interface.
func (e *SubjectError) Error() string {
	if e.TrialIndex >= 0 {
		return fmt.Sprintf("subject %d (line %d), trial %d: %v", e.UID, e.Line, e.TrialIndex, e.Err)
	}
	return fmt.Sprintf("subject %d (line %d): %v", e.UID, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *SubjectError) Unwrap() error {
	return e.Err
}
