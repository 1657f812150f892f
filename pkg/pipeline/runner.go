package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jmaspons/shapviz/pkg/adapter"
	"github.com/jmaspons/shapviz/pkg/cache"
	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/observability"
	"github.com/jmaspons/shapviz/pkg/render"
	"github.com/jmaspons/shapviz/pkg/render/dependence"
	"github.com/jmaspons/shapviz/pkg/render/force"
	"github.com/jmaspons/shapviz/pkg/render/importance"
	"github.com/jmaspons/shapviz/pkg/render/network"
	"github.com/jmaspons/shapviz/pkg/render/waterfall"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Adapters []adapter.Adapter
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and adapters.
// If adapters is nil, the built-in adapter set is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, adapters []adapter.Adapter, logger *log.Logger) *Runner {
	if adapters == nil {
		adapters = adapter.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Adapters: adapters,
		Logger:   logger,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	exp, hash, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Explanation = exp
	result.ContentHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = exp.Rows()
	result.Stats.Columns = len(exp.Columns())
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded explanation",
		"rows", exp.Rows(),
		"columns", len(exp.Columns()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, exp, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered plots",
		"plot", opts.Plot,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo parses the input with caching and returns the
// explanation, its content hash, and cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*explain.Explanation, string, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	a, err := adapter.Detect(opts.Format, r.Adapters...)
	if err != nil {
		return nil, "", false, err
	}

	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", false, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file not found: %s", opts.Input)
		}
		return nil, "", false, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read input: %s", opts.Input)
	}
	contentHash := cache.Hash(raw)
	cacheKey := cache.ExplanationKey(opts.Format, contentHash, opts.loadKeyOpts()...)

	observability.Pipeline().OnParseStart(ctx, opts.Format, opts.Input)
	start := time.Now()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if exp, err := shapio.Read(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "explanation")
				observability.Pipeline().OnParseComplete(ctx, opts.Format, opts.Input, exp.Rows(), time.Since(start), nil)
				return exp, contentHash, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "explanation")
	}

	exp, err := a.Parse(opts.Input, adapter.Options{
		FeaturesPath: opts.FeaturesPath,
		Baseline:     opts.Baseline,
		Collapse:     opts.Collapse,
	})
	observability.Pipeline().OnParseComplete(ctx, opts.Format, opts.Input, rowsOrZero(exp), time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	// Cache the parsed result in the native wire format.
	if data, err := shapio.Marshal(exp); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLExplanation); err == nil {
			observability.Cache().OnCacheSet(ctx, "explanation", len(data))
		}
	}

	return exp, contentHash, false, nil
}

// Load is a convenience wrapper that discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*explain.Explanation, error) {
	exp, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return exp, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache
// hit info. The contentHash identifies the explanation in cache keys; use
// the hash returned by LoadWithCacheInfo.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, exp *explain.Explanation, contentHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Plot, opts.Formats)
	start := time.Now()

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(contentHash, opts.Plot, format, opts.artifactKeyOpts()...)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		observability.Pipeline().OnRenderComplete(ctx, opts.Plot, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderOne(ctx, exp, opts, render.Format(format))
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Plot, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		key := cache.ArtifactKey(contentHash, opts.Plot, format, opts.artifactKeyOpts()...)
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Plot, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, exp *explain.Explanation, contentHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, exp, contentHash, opts)
	return artifacts, err
}

// renderOne dispatches to the plot subpackage for one kind and format.
func (r *Runner) renderOne(ctx context.Context, exp *explain.Explanation, opts Options, format render.Format) ([]byte, error) {
	switch opts.Kind() {
	case render.KindWaterfall:
		data, err := waterfall.Render(exp, opts.Row, r.waterfallOptions(opts)...)
		return data, renderError(err)
	case render.KindForce:
		data, err := force.Render(exp, opts.Row, r.forceOptions(opts)...)
		return data, renderError(err)
	case render.KindImportance:
		return importance.Bar(exp, r.importanceOptions(opts)...)
	case render.KindBeeswarm:
		return importance.Beeswarm(exp, r.importanceOptions(opts)...)
	case render.KindDependence:
		if opts.FeatureY != "" {
			return dependence.Render2D(exp, opts.Feature, opts.FeatureY)
		}
		var depOpts []dependence.Option
		if opts.ColorFeature != "" {
			depOpts = append(depOpts, dependence.WithColorFeature(opts.ColorFeature))
		}
		return dependence.Render(exp, opts.Feature, depOpts...)
	case render.KindNetwork:
		netOpts := network.Options{MinStrength: opts.MinStrength}
		switch format {
		case render.FormatDOT:
			dot, err := network.ToDOT(exp, netOpts)
			if err != nil {
				return nil, err
			}
			return []byte(dot), nil
		case render.FormatPNG:
			return network.RenderPNG(ctx, exp, netOpts)
		default:
			return network.RenderSVG(ctx, exp, netOpts)
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidPlot, "unknown plot kind %q", opts.Plot)
}

func (r *Runner) waterfallOptions(opts Options) []waterfall.Option {
	var out []waterfall.Option
	if opts.MaxFeatures > 0 {
		out = append(out, waterfall.WithMaxFeatures(opts.MaxFeatures))
	}
	if opts.Width > 0 {
		out = append(out, waterfall.WithWidth(opts.Width))
	}
	return out
}

func (r *Runner) forceOptions(opts Options) []force.Option {
	var out []force.Option
	if opts.Width > 0 {
		out = append(out, force.WithWidth(opts.Width))
	}
	return out
}

func (r *Runner) importanceOptions(opts Options) []importance.Option {
	var out []importance.Option
	if opts.MaxFeatures > 0 {
		out = append(out, importance.WithMaxFeatures(opts.MaxFeatures))
	}
	if opts.Width > 0 {
		out = append(out, importance.WithWidth(opts.Width))
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// renderError maps container sentinels onto structured codes so HTTP and
// CLI surfaces report them as caller mistakes, not internal failures.
func renderError(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, explain.ErrRowOutOfRange) {
		return errors.Wrap(errors.ErrCodeInvalidRow, err, "observation out of range")
	}
	return err
}

func rowsOrZero(exp *explain.Explanation) int {
	if exp == nil {
		return 0
	}
	return exp.Rows()
}
