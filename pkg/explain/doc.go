// Package explain provides the core SHAP explanation container.
//
// # Overview
//
// Shapviz renders SHAP decompositions as waterfall, force, importance,
// dependence, and interaction plots. This package provides the validated,
// immutable container those renderers read from: a matrix of per-feature
// attribution values, the feature values shown alongside them, a baseline,
// and optionally a pairwise interaction grid.
//
// The container is deliberately ignorant of where the attributions came
// from. Tree ensembles, permutation methods, and sampling-based explainers
// all produce the same shape, and the adapters in
// [github.com/jmaspons/shapviz/pkg/adapter] normalize each upstream format
// into the canonical tuple before [New] validates it.
//
// # Basic Usage
//
// Create an explanation with [New], passing the attribution grid, its
// column names, and a display feature table:
//
//	values := mat.NewDense(2, 2, []float64{1, -1, -1, 1})
//	features, _ := table.New(
//		table.StringColumn("x", []string{"a", "b"}),
//		table.NumberColumn("y", []float64{100, 10}),
//	)
//	exp, err := explain.New(values, []string{"x", "y"}, features,
//		explain.WithBaseline(4))
//
// Columns are matched by name, never by position: the feature table is
// reordered to the attribution grid's column order during construction, and
// extra feature-table columns are retained for display.
//
// # Collapsing One-Hot Columns
//
// Explainers that operate on one-hot-encoded input emit one attribution
// column per dummy. [WithCollapse] folds those columns back into their
// parent categorical feature by row-wise summation before validation runs,
// so the container exposes a single logical feature:
//
//	exp, err := explain.New(values, columns, features,
//		explain.WithCollapse(map[string][]string{
//			"color": {"color_a", "color_b"},
//		}))
//
// # Immutability
//
// An Explanation never changes after New returns. Accessors that expose
// internal grids return copies, and construction either fully succeeds or
// fails with a descriptive error - a partially built container is never
// observable. Explanations are therefore safe for concurrent reads.
package explain
