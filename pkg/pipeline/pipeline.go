// Package pipeline provides the load → render orchestration for shapviz.
//
// This package implements the complete parse → render pipeline shared by
// the CLI and the HTTP API. By centralizing this logic, both entry points
// validate options, cache intermediate results, and produce artifacts the
// same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Parse an upstream explanation file into a validated container
//  2. Render: Generate plot artifacts in one or more formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "explanation.json",
//	    Format:  "shap",
//	    Plot:    "waterfall",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
)

// Defaults shared by the CLI and the HTTP API.
const (
	// DefaultFormat is the input format assumed when none is given.
	DefaultFormat = "shapviz"

	// DefaultPlot is the plot kind rendered when none is given.
	DefaultPlot = string(render.KindWaterfall)
)

// Options contains all configuration for the explanation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input        string              `json:"input"`
	Format       string              `json:"format,omitempty"`
	FeaturesPath string              `json:"features_path,omitempty"`
	Baseline     *float64            `json:"baseline,omitempty"`
	Collapse     map[string][]string `json:"collapse,omitempty"`
	Refresh      bool                `json:"refresh,omitempty"`

	// Plot selection
	Plot         string   `json:"plot,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	Row          int      `json:"row,omitempty"`
	Feature      string   `json:"feature,omitempty"`
	FeatureY     string   `json:"feature_y,omitempty"`
	ColorFeature string   `json:"color_feature,omitempty"`
	MaxFeatures  int      `json:"max_features,omitempty"`
	Width        float64  `json:"width,omitempty"`
	MinStrength  float64  `json:"min_strength,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	// kind is the parsed plot kind, set during validation.
	kind render.Kind `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Explanation is the loaded container.
	Explanation *explain.Explanation

	// ContentHash is the content hash of the loaded explanation.
	ContentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Columns    int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the parsed explanation came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.applyDefaultLogger()
	return nil
}

// ValidateForRender checks required fields for the render stage.
func (o *Options) ValidateForRender() error {
	if o.Plot == "" {
		o.Plot = DefaultPlot
	}
	kind, err := render.ParseKind(o.Plot)
	if err != nil {
		return err
	}
	o.kind = kind

	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.Formats(kind)[0])}
	}
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(kind, f)
		if err != nil {
			return err
		}
		o.Formats[i] = string(parsed)
	}

	if kind == render.KindDependence && o.Feature == "" {
		return errors.New(errors.ErrCodeInvalidPlot, "dependence plot requires a feature")
	}
	if o.Row < 0 {
		return errors.New(errors.ErrCodeInvalidRow, "row must not be negative")
	}
	o.applyDefaultLogger()
	return nil
}

// Kind returns the parsed plot kind. Valid after a successful
// ValidateForRender or ValidateAndSetDefaults.
func (o *Options) Kind() render.Kind {
	return o.kind
}

func (o *Options) applyDefaultLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// loadKeyOpts returns the parse options that change the loaded
// explanation and must participate in the cache key.
func (o *Options) loadKeyOpts() []any {
	opts := []any{o.FeaturesPath}
	if o.Baseline != nil {
		opts = append(opts, *o.Baseline)
	}
	for _, parent := range slices.Sorted(maps.Keys(o.Collapse)) {
		opts = append(opts, parent, o.Collapse[parent])
	}
	return opts
}

// artifactKeyOpts returns the render options that change an artifact and
// must participate in the cache key.
func (o *Options) artifactKeyOpts() []any {
	return []any{o.Row, o.Feature, o.FeatureY, o.ColorFeature, o.MaxFeatures, o.Width, o.MinStrength}
}
