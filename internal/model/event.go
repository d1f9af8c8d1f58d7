package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Event is one step of a subject's timeline as exported by jsPsych.
// All payload fields are optional; absent values decode as nil so that row
// construction can report exactly which field was missing. A field holding
// a value of the wrong JSON type does not fail decoding: it is left unset
// and reported by Err, so the line still counts as a subject.
type Event struct {
	// Type is set by custom steps such as the comprehension quiz.
	Type string

	// TrialType is set by jsPsych plugins (e.g. "html-slider-response").
	TrialType string

	// TrialID identifies the scene shown in the trial.
	TrialID *float64

	// Response is the plugin response: a number for slider and button
	// trials, an object keyed by question name for survey-text trials.
	Response json.RawMessage

	// RT is the reaction time in milliseconds.
	RT *float64

	// TrialIndex is the position of the step in the full timeline.
	TrialIndex *float64

	// Parent is the grouping label of the target ("ensemble" or "lone").
	Parent *string

	// Correct marks a comprehension quiz answered correctly.
	Correct bool

	// Subject is the participant identifier added by the experiment.
	// It is never written to the datasets.
	Subject string

	invalid []error
}

// UnmarshalJSON decodes one step object field by field.
// It only fails on malformed JSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	*e = Event{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		if !json.Valid(data) {
			return err
		}
		e.invalid = append(e.invalid, fmt.Errorf("%w: step is not an object: %s", ErrFieldType, data))
		return nil
	}

	if v := field[string](e, fields, "type"); v != nil {
		e.Type = *v
	}
	if v := field[string](e, fields, "trial_type"); v != nil {
		e.TrialType = *v
	}
	e.TrialID = field[float64](e, fields, "trial_id")
	e.RT = field[float64](e, fields, "rt")
	e.TrialIndex = field[float64](e, fields, "trial_index")
	e.Parent = field[string](e, fields, "parent")
	if v := field[bool](e, fields, "correct"); v != nil {
		e.Correct = *v
	}
	if raw, ok := fields["response"]; ok && !isNull(raw) {
		e.Response = raw
	}
	if raw, ok := fields["subject"]; ok && !isNull(raw) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			id = string(bytes.TrimSpace(raw))
		}
		e.Subject = id
	}
	return nil
}

// field decodes fields[name] into a T. It returns nil when the field is
// absent or null, and records a type mismatch on e.
func field[T any](e *Event, fields map[string]json.RawMessage, name string) *T {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		e.invalid = append(e.invalid, fmt.Errorf("%s: %w: got %s", name, ErrFieldType, raw))
		return nil
	}
	return &v
}

// Err reports every field that held a value of the wrong JSON type.
func (e Event) Err() error {
	return errors.Join(e.invalid...)
}

// Discriminator returns the value used to classify the step:
// trial_type when present, otherwise type.
func (e Event) Discriminator() string {
	if e.TrialType != "" {
		return e.TrialType
	}
	return e.Type
}

// Is reports whether either the type or trial_type field equals kind.
func (e Event) Is(kind string) bool {
	return e.Type == kind || e.TrialType == kind
}

// ResponseNumber decodes a numeric response.
// It returns nil without error when the response is absent or null.
func (e Event) ResponseNumber() (*float64, error) {
	if isNull(e.Response) {
		return nil, nil //nolint:nilnil // absent response is not an error
	}
	var n float64
	if err := json.Unmarshal(e.Response, &n); err != nil {
		return nil, fmt.Errorf("%w: want number, got %s", ErrResponseType, e.Response)
	}
	return &n, nil
}

// ResponseAnswer returns the answer to the named survey question.
// The boolean is false when the response or the question is absent.
func (e Event) ResponseAnswer(question string) (string, bool, error) {
	if isNull(e.Response) {
		return "", false, nil
	}
	var answers map[string]json.RawMessage
	if err := json.Unmarshal(e.Response, &answers); err != nil {
		return "", false, fmt.Errorf("%w: want object, got %s", ErrResponseType, e.Response)
	}
	raw, ok := answers[question]
	if !ok || isNull(raw) {
		return "", false, nil
	}
	var answer string
	if err := json.Unmarshal(raw, &answer); err != nil {
		return "", false, fmt.Errorf("%w: answer %q is not a string", ErrResponseType, question)
	}
	return answer, true, nil
}

// isNull reports whether raw holds no value.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Subject is one successfully decoded input line.
type Subject struct {
	// Line is the 0-based index of the line in the input file.
	Line int

	// Events is the subject's timeline in recorded order.
	Events []Event
}
