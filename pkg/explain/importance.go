package explain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MeanAbs returns each feature's mean absolute attribution, in column
// order. This is the standard SHAP importance measure: features that move
// predictions far from the baseline, in either direction, score high.
func (e *Explanation) MeanAbs() []float64 {
	n, p := e.values.Dims()
	out := make([]float64, p)
	if n == 0 {
		return out
	}
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += math.Abs(e.values.At(i, j))
		}
		out[j] = sum / float64(n)
	}
	return out
}

// Order returns the feature names sorted by descending mean absolute
// attribution. Ties break alphabetically so the order is deterministic.
func (e *Explanation) Order() []string {
	imp := e.MeanAbs()
	names := e.Columns()
	byName := make(map[string]float64, len(names))
	for i, name := range names {
		byName[name] = imp[i]
	}
	sort.SliceStable(names, func(a, b int) bool {
		if byName[names[a]] != byName[names[b]] {
			return byName[names[a]] > byName[names[b]]
		}
		return names[a] < names[b]
	})
	return names
}

// InteractionStrength returns the mean absolute interaction matrix: entry
// (a, b) averages |interaction| between features a and b over all
// observations, in column order. The diagonal carries main-effect
// strengths. Returns nil when the explanation has no interactions.
func (e *Explanation) InteractionStrength() *mat.Dense {
	if e.inter == nil {
		return nil
	}
	n, p := e.inter.n, e.inter.p
	out := mat.NewDense(p, p, nil)
	if n == 0 {
		return out
	}
	for a := 0; a < p; a++ {
		for b := 0; b < p; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += math.Abs(e.inter.at(i, a, b))
			}
			out.Set(a, b, sum/float64(n))
		}
	}
	return out
}
