package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/trialtab/internal/table"
)

// ParseRun holds the state of one parser invocation.
// Pipeline steps read and fill it in order: decoding sets Subjects and
// Skipped, tabulation sets Counts, Notices and Excluded, writing persists
// the tables to CountsPath and NoticedPath.
type ParseRun struct {
	// ID identifies the run in log output.
	ID string

	// Dataset is the path of the newline-delimited JSON input.
	Dataset string

	// StartedAt is when the run was created.
	StartedAt time.Time

	// Subjects are the successfully decoded lines in input order.
	Subjects []Subject

	// Skipped lists the 0-based indices of lines that were not valid JSON.
	Skipped []int

	// Excluded lists uids of subjects left out by the missing-quiz policy.
	Excluded []uint16

	// Counts is the counts dataset (CountSchema).
	Counts *table.Table

	// Notices is the noticed dataset (NoticeSchema).
	Notices *table.Table

	// CountsPath is the output path of the counts CSV.
	CountsPath string

	// NoticedPath is the output path of the noticed CSV.
	NoticedPath string

	// PerformedSteps lists the names of completed pipeline steps.
	PerformedSteps []string

	// Error holds the error that stopped the run, if any.
	Error error

	// ErrorMessage is the string form of Error.
	ErrorMessage string
}

// NewParseRun creates a run for the given dataset with empty tables.
func NewParseRun(dataset string) *ParseRun {
	return &ParseRun{
		ID:        uuid.New().String(),
		Dataset:   dataset,
		StartedAt: time.Now(),
		Counts:    table.New(CountSchema()),
		Notices:   table.New(NoticeSchema()),
	}
}
