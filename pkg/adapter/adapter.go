// Package adapter normalizes upstream explainer outputs into explanations.
//
// # Overview
//
// Every supported explanation method ultimately emits the same shape: a
// per-observation, per-feature attribution grid, feature values for
// display, a baseline, and sometimes pairwise interactions. What differs
// is the serialization. This package defines one adapter per upstream
// format, each reducing its input to the canonical tuple and handing it to
// the shared validator in [github.com/jmaspons/shapviz/pkg/explain].
//
// The set of adapters is closed and explicit. The validator never learns
// which library produced the attributions: adding a new upstream format
// means adding an adapter here, not a branch in the container.
//
// # Formats
//
//   - "shapviz": the native wire format of pkg/shapio
//   - "shap": the JSON export of a Python shap.Explanation
//   - "csv": paired CSV files (attribution grid + feature table)
//
// # Usage
//
//	a, err := adapter.Detect("shap", adapter.Default()...)
//	if err != nil {
//	    return err
//	}
//	exp, err := a.Parse("explanation.json", adapter.Options{})
package adapter

import (
	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
)

// Options configures parsing across all adapters.
type Options struct {
	// FeaturesPath is the feature-value table for adapters whose primary
	// file carries only attributions (currently the csv adapter).
	FeaturesPath string

	// Baseline overrides the baseline found in the input, when non-nil.
	Baseline *float64

	// Collapse folds one-hot attribution columns into parent features,
	// applied during container construction. See explain.WithCollapse.
	Collapse map[string][]string
}

// options converts the shared fields to explain constructor options.
func (o Options) options() []explain.Option {
	var opts []explain.Option
	if o.Baseline != nil {
		opts = append(opts, explain.WithBaseline(*o.Baseline))
	}
	if len(o.Collapse) > 0 {
		opts = append(opts, explain.WithCollapse(o.Collapse))
	}
	return opts
}

// Adapter reads one upstream explanation format.
type Adapter interface {
	// Parse reads the file at path and returns a validated explanation.
	Parse(path string, opts Options) (*explain.Explanation, error)
	// Supports reports whether this adapter handles the given format name.
	Supports(format string) bool
	// Type returns the format identifier (e.g., "shap", "csv").
	Type() string
}

// Default returns the built-in adapter set.
func Default() []Adapter {
	return []Adapter{&Native{}, &SHAPJSON{}, &CSV{}}
}

// Detect finds an adapter that supports the given format name.
// Returns a structured INVALID_FORMAT error if no adapter matches.
func Detect(format string, adapters ...Adapter) (Adapter, error) {
	for _, a := range adapters {
		if a.Supports(format) {
			return a, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format: %s", format)
}
