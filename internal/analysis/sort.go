package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nao1215/trialtab/internal/config"
)

// SortRows sorts rows in place by column, ascending unless desc is set.
// Ties keep scene then parent order.
func SortRows(rows []GroupMean, column string, desc bool) error {
	var by func(a, b GroupMean) int
	switch column {
	case config.SortScene, "":
		by = func(a, b GroupMean) int { return cmp.Compare(a.Scene, b.Scene) }
	case config.SortParent:
		by = func(a, b GroupMean) int { return cmp.Compare(a.Parent.Rank(), b.Parent.Rank()) }
	case config.SortMean:
		by = func(a, b GroupMean) int { return cmp.Compare(a.Mean, b.Mean) }
	case config.SortN:
		by = func(a, b GroupMean) int { return cmp.Compare(a.N, b.N) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSortColumn, column)
	}

	slices.SortStableFunc(rows, func(a, b GroupMean) int {
		c := by(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return compareSceneParent(a, b)
	})
	return nil
}
