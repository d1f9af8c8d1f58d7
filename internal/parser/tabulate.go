package parser

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

// Result holds the datasets built from a set of subjects.
type Result struct {
	// Counts has one row per counting trial (model.CountSchema).
	Counts *table.Table

	// Notices has one row per included subject (model.NoticeSchema).
	Notices *table.Table

	// Excluded lists uids left out under the skip policy.
	Excluded []uint16
}

// Tabulate trims and parses every subject and appends its rows to the
// datasets. Subject i receives uid i. The missing quiz policy of layout
// decides whether a subject without a passed quiz is kept, excluded or
// fails the whole call.
func Tabulate(subjects []model.Subject, layout config.Layout, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(subjects) > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d", ErrTooManySubjects, len(subjects))
	}

	res := &Result{
		Counts:  table.New(model.CountSchema()),
		Notices: table.New(model.NoticeSchema()),
	}

	for i, subject := range subjects {
		uid := uint16(i) //nolint:gosec // bounded by the check above

		trials, found := Trim(subject.Events, layout)
		if !found {
			switch layout.MissingQuiz {
			case config.MissingQuizFail:
				return nil, &SubjectError{UID: uid, Line: subject.Line, TrialIndex: -1, Err: ErrNoQuizPass}
			case config.MissingQuizSkip:
				logger.Warn("excluding subject without a passed comprehension quiz",
					"uid", uid, "line", subject.Line, "subject", subjectID(subject))
				res.Excluded = append(res.Excluded, uid)
				continue
			default:
				logger.Warn("no passed comprehension quiz, parsing from the first step",
					"uid", uid, "line", subject.Line, "subject", subjectID(subject))
			}
		}

		counts, notice, err := ParseSubject(subject, trials, uid, layout)
		if err != nil {
			return nil, err
		}

		for _, row := range counts {
			if err := res.Counts.Append(row.Values()...); err != nil {
				return nil, &SubjectError{UID: uid, Line: subject.Line, TrialIndex: int(row.Order), Err: err}
			}
		}
		if err := res.Notices.Append(notice.Values()...); err != nil {
			return nil, &SubjectError{UID: uid, Line: subject.Line, TrialIndex: int(notice.Order), Err: err}
		}

		logger.Debug("parsed subject", "uid", uid, "line", subject.Line,
			"counts", len(counts), "noticed", notice.Noticed)
	}

	return res, nil
}

// subjectID returns the participant identifier recorded in the timeline, if any.
func subjectID(subject model.Subject) string {
	for _, ev := range subject.Events {
		if ev.Subject != "" {
			return ev.Subject
		}
	}
	return ""
}
