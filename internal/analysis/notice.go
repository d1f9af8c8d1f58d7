package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/table"
)

// ParentMean is the noticing rate of one parent category.
type ParentMean struct {
	Parent model.Parent `json:"parent"`
	Mean   float64      `json:"mean"`
	N      int          `json:"n"`
}

// GroupMean is the noticing rate of one (scene, parent) group.
type GroupMean struct {
	Scene  uint8        `json:"scene"`
	Parent model.Parent `json:"parent"`
	Mean   float64      `json:"mean"`
	N      int          `json:"n"`
}

// DeriveParent replaces the boolean grouped column of a noticed table with
// the categorical parent column: Grouped when grouped is true, else Alone.
func DeriveParent(notices *table.Table) (*table.Table, error) {
	idx, err := notices.Schema().Index(model.ColumnGrouped)
	if err != nil {
		return nil, err
	}

	derived, err := notices.WithColumn(model.ParentColumn(), func(row []any) any {
		grouped, _ := row[idx].(bool)
		return model.ParentOf(grouped)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to derive parent: %w", err)
	}
	return derived.Drop(model.ColumnGrouped)
}

// NoticedByParent returns the mean of noticed per parent category, in
// category order (Grouped, then Alone). Categories without rows are omitted.
func NoticedByParent(notices *table.Table) ([]ParentMean, error) {
	parents, noticed, err := parentColumns(notices)
	if err != nil {
		return nil, err
	}

	groups := make(map[model.Parent]stats.Float64Data)
	for i, p := range parents {
		groups[p] = append(groups[p], indicator(noticed[i]))
	}

	out := make([]ParentMean, 0, len(groups))
	for p, values := range groups {
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, fmt.Errorf("parent %s: %w", p, err)
		}
		out = append(out, ParentMean{Parent: p, Mean: mean, N: len(values)})
	}
	slices.SortFunc(out, func(a, b ParentMean) int {
		return cmp.Compare(a.Parent.Rank(), b.Parent.Rank())
	})
	return out, nil
}

// NoticedBySceneParent returns the mean of noticed per (scene, parent)
// group, sorted by scene and then parent category.
func NoticedBySceneParent(notices *table.Table) ([]GroupMean, error) {
	parents, noticed, err := parentColumns(notices)
	if err != nil {
		return nil, err
	}
	scenes, err := notices.Uint8s(model.ColumnScene)
	if err != nil {
		return nil, err
	}

	type key struct {
		scene  uint8
		parent model.Parent
	}
	groups := make(map[key]stats.Float64Data)
	for i := range parents {
		k := key{scene: scenes[i], parent: parents[i]}
		groups[k] = append(groups[k], indicator(noticed[i]))
	}

	out := make([]GroupMean, 0, len(groups))
	for k, values := range groups {
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, fmt.Errorf("scene %d parent %s: %w", k.scene, k.parent, err)
		}
		out = append(out, GroupMean{Scene: k.scene, Parent: k.parent, Mean: mean, N: len(values)})
	}
	slices.SortFunc(out, compareSceneParent)
	return out, nil
}

// parentColumns extracts the parent and noticed columns of a derived table.
func parentColumns(notices *table.Table) ([]model.Parent, []bool, error) {
	levels, err := notices.Strings(model.ColumnParent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMissingParent, err)
	}
	noticed, err := notices.Bools(model.ColumnNoticed)
	if err != nil {
		return nil, nil, err
	}

	parents := make([]model.Parent, len(levels))
	for i, l := range levels {
		p, err := model.ParseParent(l)
		if err != nil {
			return nil, nil, err
		}
		parents[i] = p
	}
	return parents, noticed, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func compareSceneParent(a, b GroupMean) int {
	if c := cmp.Compare(a.Scene, b.Scene); c != 0 {
		return c
	}
	return cmp.Compare(a.Parent.Rank(), b.Parent.Rank())
}
