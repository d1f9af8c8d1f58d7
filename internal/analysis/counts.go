package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

// SubjectCount is the number of counting trials recorded for one subject.
type SubjectCount struct {
	UID uint16 `json:"uid"`
	N   int    `json:"n"`
}

// SceneCount summarizes the counting trials of one scene.
type SceneCount struct {
	Scene       uint8   `json:"scene"`
	Trials      int     `json:"trials"`
	MeanCount   float64 `json:"mean_count"`
	MedianCount float64 `json:"median_count"`
	MeanRT      float64 `json:"mean_rt"`
}

// CountsPerSubject returns the number of count rows per uid, sorted by uid.
// Subjects without counting trials do not appear.
func CountsPerSubject(counts *table.Table) ([]SubjectCount, error) {
	uids, err := counts.Uint16s(model.ColumnUID)
	if err != nil {
		return nil, err
	}

	n := make(map[uint16]int)
	for _, uid := range uids {
		n[uid]++
	}

	out := make([]SubjectCount, 0, len(n))
	for uid, c := range n {
		out = append(out, SubjectCount{UID: uid, N: c})
	}
	slices.SortFunc(out, func(a, b SubjectCount) int {
		return cmp.Compare(a.UID, b.UID)
	})
	return out, nil
}

// CountsByScene returns the mean and median count and the mean reaction
// time of every scene, sorted by scene.
func CountsByScene(counts *table.Table) ([]SceneCount, error) {
	scenes, err := counts.Uint8s(model.ColumnScene)
	if err != nil {
		return nil, err
	}
	values, err := counts.Uint8s(model.ColumnCount)
	if err != nil {
		return nil, err
	}
	rts, err := counts.Float32s(model.ColumnRT)
	if err != nil {
		return nil, err
	}

	type group struct {
		counts stats.Float64Data
		rts    stats.Float64Data
	}
	groups := make(map[uint8]*group)
	for i, scene := range scenes {
		g, ok := groups[scene]
		if !ok {
			g = &group{}
			groups[scene] = g
		}
		g.counts = append(g.counts, float64(values[i]))
		g.rts = append(g.rts, float64(rts[i]))
	}

	out := make([]SceneCount, 0, len(groups))
	for scene, g := range groups {
		sc := SceneCount{Scene: scene, Trials: len(g.counts)}
		if sc.MeanCount, err = stats.Mean(g.counts); err != nil {
			return nil, fmt.Errorf("scene %d: %w", scene, err)
		}
		if sc.MedianCount, err = stats.Median(g.counts); err != nil {
			return nil, fmt.Errorf("scene %d: %w", scene, err)
		}
		if sc.MeanRT, err = stats.Mean(g.rts); err != nil {
			return nil, fmt.Errorf("scene %d: %w", scene, err)
		}
		out = append(out, sc)
	}
	slices.SortFunc(out, func(a, b SceneCount) int {
		return cmp.Compare(a.Scene, b.Scene)
	})
	return out, nil
}
