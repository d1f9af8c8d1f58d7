package analysis

import (
	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

// Summary aggregates every analysis of one experiment.
type Summary struct {
	// Dataset names the analyzed export.
	Dataset string `json:"dataset"`

	// Subjects is the number of rows in the noticed dataset.
	Subjects int `json:"subjects"`

	// Noticed is how many subjects reported noticing the probe.
	Noticed int `json:"noticed"`

	// Trials is the number of rows in the counts dataset.
	Trials int `json:"trials"`

	ByParent      []ParentMean   `json:"by_parent"`
	BySceneParent []GroupMean    `json:"by_scene_parent"`
	PerSubject    []SubjectCount `json:"per_subject"`
	ByScene       []SceneCount   `json:"by_scene"`
}

// Summarize derives the parent column of notices and computes every
// summary. The scene table is sorted by scene and parent; use SortRows
// on BySceneParent for another order.
func Summarize(dataset string, notices, counts *table.Table) (*Summary, error) {
	derived, err := DeriveParent(notices)
	if err != nil {
		return nil, err
	}
	noticed, err := derived.Bools(model.ColumnNoticed)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Dataset:  dataset,
		Subjects: derived.Len(),
		Trials:   counts.Len(),
	}
	for _, n := range noticed {
		if n {
			s.Noticed++
		}
	}

	if s.ByParent, err = NoticedByParent(derived); err != nil {
		return nil, err
	}
	if s.BySceneParent, err = NoticedBySceneParent(derived); err != nil {
		return nil, err
	}
	if s.PerSubject, err = CountsPerSubject(counts); err != nil {
		return nil, err
	}
	if s.ByScene, err = CountsByScene(counts); err != nil {
		return nil, err
	}
	return s, nil
}
