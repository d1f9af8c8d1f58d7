package parser

import (
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/model"
)

// Trim returns the experimental trials of a timeline: the steps from
// layout.QuizOffset past the first correctly answered quiz, without the
// last layout.TrailingSteps steps. found is false when no quiz was passed,
// in which case trimming starts at index 0. The result shares the
// backing array of events.
func Trim(events []model.Event, layout config.Layout) (trials []model.Event, found bool) {
	start := 0
	for i, ev := range events {
		if ev.Is(layout.QuizType) && ev.Correct {
			start = i + layout.QuizOffset
			found = true
			break
		}
	}

	end := len(events) - layout.TrailingSteps
	if start >= end {
		return nil, found
	}
	return events[start:end], found
}

// ParseSubject maps already trimmed trials onto rows for the subject uid.
// It returns the subject's count rows in timeline order and exactly one
// notice row. Errors are *SubjectError values naming the offending step;
// a trial with a wrongly typed field is an error even when its type would
// otherwise be ignored.
func ParseSubject(subject model.Subject, trials []model.Event, uid uint16, layout config.Layout) ([]model.CountRow, model.NoticeRow, error) {
	var counts []model.CountRow
	notice := model.NewNoticeBuilder(uid)

	for _, ev := range trials {
		if err := ev.Err(); err != nil {
			return nil, model.NoticeRow{}, stepError(subject, uid, ev, err)
		}
		switch ev.Discriminator() {
		case layout.SliderType:
			row, err := model.NewCountRow(uid, ev)
			if err != nil {
				return nil, model.NoticeRow{}, stepError(subject, uid, ev, err)
			}
			counts = append(counts, row)

		case layout.ButtonType:
			response, err := ev.ResponseNumber()
			if err != nil {
				return nil, model.NoticeRow{}, stepError(subject, uid, ev, err)
			}
			noticed := response != nil && *response == float64(layout.NoticedResponse)
			grouped := ev.Parent != nil && *ev.Parent == layout.GroupedParent
			notice.SetResponse(ev, noticed, grouped)

		case layout.SurveyType:
			answer, ok, err := ev.ResponseAnswer(layout.DescriptionQuestion)
			if err != nil {
				return nil, model.NoticeRow{}, stepError(subject, uid, ev, err)
			}
			if !ok {
				return nil, model.NoticeRow{}, stepError(subject, uid, ev, ErrMissingAnswer)
			}
			notice.SetDescription(norm.NFC.String(answer))
		}
	}

	row, err := notice.Finalize()
	if err != nil {
		return nil, model.NoticeRow{}, &SubjectError{UID: uid, Line: subject.Line, TrialIndex: -1, Err: err}
	}
	return counts, row, nil
}

// stepError wraps err with the subject and the step's trial index.
func stepError(subject model.Subject, uid uint16, ev model.Event, err error) *SubjectError {
	idx := -1
	if ev.TrialIndex != nil {
		idx = int(*ev.TrialIndex)
	}
	return &SubjectError{UID: uid, Line: subject.Line, TrialIndex: idx, Err: err}
}
