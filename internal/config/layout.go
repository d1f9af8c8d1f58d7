package config

import (
	"fmt"
	"path/filepath"
)

// MissingQuizPolicy decides what happens to a subject whose timeline has no
// correctly answered comprehension quiz.
type MissingQuizPolicy string

const (
	// MissingQuizKeep processes the whole timeline from index 0 and logs a warning.
	MissingQuizKeep MissingQuizPolicy = "keep"
	// MissingQuizSkip leaves the subject out of both datasets.
	MissingQuizSkip MissingQuizPolicy = "skip"
	// MissingQuizFail aborts the run.
	MissingQuizFail MissingQuizPolicy = "fail"
)

// IsValid returns true if this is a known policy.
func (p MissingQuizPolicy) IsValid() bool {
	switch p {
	case MissingQuizKeep, MissingQuizSkip, MissingQuizFail:
		return true
	default:
		return false
	}
}

// Default timeline layout of the target-ensemble experiments.
const (
	// DefaultQuizType is the type of the comprehension quiz step.
	DefaultQuizType = "comp_quiz"

	// DefaultQuizOffset is how far past the passed quiz the trials start:
	// the quiz is followed by its feedback page.
	DefaultQuizOffset = 2

	// DefaultTrailingSteps is the number of steps after the last trial
	// (the exit page).
	DefaultTrailingSteps = 1

	// DefaultSliderType is the plugin that records bounce counts.
	DefaultSliderType = "html-slider-response"

	// DefaultButtonType is the plugin that records whether the probe was noticed.
	DefaultButtonType = "html-button-response"

	// DefaultSurveyType is the plugin that records the free-text description.
	DefaultSurveyType = "survey-text"

	// DefaultNoticedResponse is the button index meaning "yes, I noticed".
	DefaultNoticedResponse = 0

	// DefaultGroupedParent is the parent label of grouped targets.
	DefaultGroupedParent = "ensemble"

	// DefaultDescriptionQuestion is the survey question holding the description.
	DefaultDescriptionQuestion = "Q0"
)

// Layout describes how a subject timeline is laid out and how its steps map
// to dataset rows. A Layout is a plain value; the parser receives it
// explicitly and never consults package state.
type Layout struct {
	QuizType            string
	QuizOffset          int
	TrailingSteps       int
	MissingQuiz         MissingQuizPolicy
	SliderType          string
	ButtonType          string
	SurveyType          string
	NoticedResponse     int
	GroupedParent       string
	DescriptionQuestion string
}

// DefaultLayout returns the layout of the target-ensemble experiments.
func DefaultLayout() Layout {
	return Layout{
		QuizType:            DefaultQuizType,
		QuizOffset:          DefaultQuizOffset,
		TrailingSteps:       DefaultTrailingSteps,
		MissingQuiz:         MissingQuizKeep,
		SliderType:          DefaultSliderType,
		ButtonType:          DefaultButtonType,
		SurveyType:          DefaultSurveyType,
		NoticedResponse:     DefaultNoticedResponse,
		GroupedParent:       DefaultGroupedParent,
		DescriptionQuestion: DefaultDescriptionQuestion,
	}
}

// Validate checks that the layout can drive the parser.
func (l Layout) Validate() error {
	if l.QuizOffset < 0 {
		return ErrInvalidQuizOffset
	}
	if l.TrailingSteps < 0 {
		return ErrInvalidTrailingSteps
	}
	if !l.MissingQuiz.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMissingQuiz, l.MissingQuiz)
	}
	if l.QuizType == "" || l.SliderType == "" || l.ButtonType == "" || l.SurveyType == "" {
		return ErrEmptyTrialType
	}
	return nil
}

// LayoutOverride is the YAML form of a Layout. Unset fields keep the value
// they are merged onto.
type LayoutOverride struct {
	// QuizType is the type of the comprehension quiz step.
	QuizType string `yaml:"quizType,omitempty"`

	// QuizOffset is the number of steps from the passed quiz to the first trial.
	QuizOffset *int `yaml:"quizOffset,omitempty"`

	// TrailingSteps is the number of steps dropped from the end of the timeline.
	TrailingSteps *int `yaml:"trailingSteps,omitempty"`

	// MissingQuiz is the policy for timelines without a passed quiz.
	MissingQuiz MissingQuizPolicy `yaml:"missingQuiz,omitempty"`

	// SliderType is the trial type of counting responses.
	SliderType string `yaml:"sliderType,omitempty"`

	// ButtonType is the trial type of noticing responses.
	ButtonType string `yaml:"buttonType,omitempty"`

	// SurveyType is the trial type of free-text descriptions.
	SurveyType string `yaml:"surveyType,omitempty"`

	// NoticedResponse is the button response that means the probe was noticed.
	NoticedResponse *int `yaml:"noticedResponse,omitempty"`

	// GroupedParent is the parent label that marks a grouped target.
	GroupedParent string `yaml:"groupedParent,omitempty"`

	// DescriptionQuestion is the survey question holding the description.
	DescriptionQuestion string `yaml:"descriptionQuestion,omitempty"`
}

// Apply returns base with every set field of o applied.
func (o LayoutOverride) Apply(base Layout) Layout {
	result := base
	if o.QuizType != "" {
		result.QuizType = o.QuizType
	}
	if o.QuizOffset != nil {
		result.QuizOffset = *o.QuizOffset
	}
	if o.TrailingSteps != nil {
		result.TrailingSteps = *o.TrailingSteps
	}
	if o.MissingQuiz != "" {
		result.MissingQuiz = o.MissingQuiz
	}
	if o.SliderType != "" {
		result.SliderType = o.SliderType
	}
	if o.ButtonType != "" {
		result.ButtonType = o.ButtonType
	}
	if o.SurveyType != "" {
		result.SurveyType = o.SurveyType
	}
	if o.NoticedResponse != nil {
		result.NoticedResponse = *o.NoticedResponse
	}
	if o.GroupedParent != "" {
		result.GroupedParent = o.GroupedParent
	}
	if o.DescriptionQuestion != "" {
		result.DescriptionQuestion = o.DescriptionQuestion
	}
	return result
}

// File represents the structure of the .trialtab configuration file.
type File struct {
	// Defaults applies to every dataset.
	Defaults LayoutOverride `yaml:"defaults,omitempty"`

	// Datasets maps a dataset file name (e.g. "target-ensemble-pilot-v2.txt")
	// to overrides for that export only.
	Datasets map[string]LayoutOverride `yaml:"datasets,omitempty"`
}

// GetLayout returns the layout for a dataset path: built-in defaults, then
// the file defaults, then the entry matching the dataset's base name.
func (cf *File) GetLayout(dataset string) Layout {
	layout := DefaultLayout()
	if cf == nil {
		return layout
	}

	layout = cf.Defaults.Apply(layout)
	if override, ok := cf.Datasets[filepath.Base(dataset)]; ok {
		layout = override.Apply(layout)
	}
	return layout
}
