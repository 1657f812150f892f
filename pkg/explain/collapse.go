package explain

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownCollapseColumn is returned by [New] when a collapse group
	// names an expanded column that does not exist in the attribution grid.
	ErrUnknownCollapseColumn = errors.New("collapse group references an unknown column")

	// ErrCollapseOverlap is returned by [New] when an expanded column is
	// claimed by more than one collapse group, or listed twice in one.
	ErrCollapseOverlap = errors.New("column assigned to multiple collapse groups")

	// ErrEmptyCollapseGroup is returned by [New] when a collapse group has
	// an empty parent name or no expanded columns.
	ErrEmptyCollapseGroup = errors.New("collapse group must name a parent and at least one column")
)

// collapsePlan validates the collapse groups against the given columns and
// returns expanded-column-name -> parent-feature-name.
func collapsePlan(columns []string, groups map[string][]string) (map[string]string, error) {
	parent := make(map[string]string)
	for name, children := range groups {
		if name == "" || len(children) == 0 {
			return nil, fmt.Errorf("group %q: %w", name, ErrEmptyCollapseGroup)
		}
		if slices.Contains(columns, name) && !slices.Contains(children, name) {
			return nil, fmt.Errorf("group %q collides with an existing column: %w", name, ErrDuplicateColumn)
		}
		for _, child := range children {
			if !slices.Contains(columns, child) {
				return nil, fmt.Errorf("group %q, column %q: %w", name, child, ErrUnknownCollapseColumn)
			}
			if prev, ok := parent[child]; ok {
				return nil, fmt.Errorf("column %q in groups %q and %q: %w", child, prev, name, ErrCollapseOverlap)
			}
			parent[child] = name
		}
	}
	return parent, nil
}

// collapseValues sums each group's expanded columns into a single parent
// column. The parent takes the position of the group's first expanded
// column; all other grouped columns are dropped. Ungrouped columns keep
// their relative order.
func collapseValues(values *mat.Dense, columns []string, groups map[string][]string) (*mat.Dense, []string, error) {
	parent, err := collapsePlan(columns, groups)
	if err != nil {
		return nil, nil, err
	}

	n, _ := values.Dims()
	var outCols []string
	outPos := make(map[string]int)
	pos := make([]int, len(columns)) // source column -> output column
	for j, name := range columns {
		out := name
		if p, ok := parent[name]; ok {
			out = p
		}
		i, ok := outPos[out]
		if !ok {
			i = len(outCols)
			outPos[out] = i
			outCols = append(outCols, out)
		}
		pos[j] = i
	}

	folded := mat.NewDense(n, len(outCols), nil)
	for i := 0; i < n; i++ {
		for j := range columns {
			folded.Set(i, pos[j], folded.At(i, pos[j])+values.At(i, j))
		}
	}
	return folded, outCols, nil
}
