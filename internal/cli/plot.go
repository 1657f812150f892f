package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/render"
)

// plotOpts holds the command-line flags for the plot command.
// These options select the plot family, the observation or feature to
// focus on, and the output formats.
type plotOpts struct {
	output      string   // output file path (or base path for multiple outputs)
	kinds       []string // plot kinds: waterfall, force, importance, beeswarm, dependence, network
	formats     []string // output formats per kind (empty means the kind's default)
	inputFormat string   // input format (empty means auto-detect)
	features    string   // sidecar feature table path
	baseline    float64  // baseline override
	collapse    []string // one-hot groups, "parent=child1,child2"
	row         int      // observation index for waterfall and force
	feature     string   // x feature for dependence
	featureY    string   // second feature for 2D dependence
	color       string   // color feature for dependence
	maxFeatures int      // feature cap for waterfall, importance, beeswarm
	width       float64  // viewport width in pixels
	minStrength float64  // relative edge cutoff for network
	noCache     bool     // bypass the cache entirely
	refresh     bool     // recompute and overwrite cached entries
}

// plotCommand creates the plot command for rendering explanations to files.
//
// Default settings:
//   - kind: waterfall
//   - format: the kind's native format (svg, html for dependence, dot for network)
//   - row: 0
func (c *CLI) plotCommand() *cobra.Command {
	var kindsStr, formatsStr string
	opts := plotOpts{}

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Render an explanation to plot file(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.kinds = parseKinds(kindsStr)
			opts.formats = splitList(formatsStr)
			var baseline *float64
			if cmd.Flags().Changed("baseline") {
				baseline = &opts.baseline
			}
			return c.runPlot(cmd.Context(), args[0], baseline, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single kind/format) or base path (multiple)")
	cmd.Flags().StringVarP(&kindsStr, "type", "t", "", "plot kind(s): waterfall (default), force, importance, beeswarm, dependence, network (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s) per kind (comma-separated)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format (default auto-detect)")
	cmd.Flags().StringVar(&opts.features, "features", "", "sidecar feature table (CSV)")
	cmd.Flags().Float64Var(&opts.baseline, "baseline", 0, "baseline override")
	cmd.Flags().StringArrayVar(&opts.collapse, "group", nil, "one-hot group to fold, parent=child1,child2 (repeatable)")
	cmd.Flags().IntVar(&opts.row, "row", 0, "observation index (waterfall, force)")
	cmd.Flags().StringVar(&opts.feature, "feature", "", "feature on the x axis (dependence)")
	cmd.Flags().StringVar(&opts.featureY, "feature-y", "", "second feature for 2D dependence")
	cmd.Flags().StringVar(&opts.color, "color", "", "color feature (dependence)")
	cmd.Flags().IntVar(&opts.maxFeatures, "max-features", 0, "cap on displayed features")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.minStrength, "min-strength", 0, "relative interaction cutoff (network)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached entries")

	return cmd
}

// runPlot loads the explanation once, then renders every requested kind.
func (c *CLI) runPlot(ctx context.Context, input string, baseline *float64, opts *plotOpts) error {
	logger := loggerFromContext(ctx)

	collapse, err := parseGroups(opts.collapse)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	multiple := len(opts.kinds) > 1 || len(opts.formats) > 1

	for _, kind := range opts.kinds {
		pipeOpts := pipeline.Options{
			Input:        input,
			Format:       opts.inputFormat,
			FeaturesPath: opts.features,
			Baseline:     baseline,
			Collapse:     collapse,
			Refresh:      opts.refresh,
			Plot:         kind,
			Formats:      opts.formats,
			Row:          opts.row,
			Feature:      opts.feature,
			FeatureY:     opts.featureY,
			ColorFeature: opts.color,
			MaxFeatures:  opts.maxFeatures,
			Width:        opts.width,
			MinStrength:  opts.minStrength,
			Logger:       logger,
		}
		applyPlotDefaults(&pipeOpts, cfg)

		spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", kind))
		spin.Start()
		result, err := runner.Execute(ctx, pipeOpts)
		spin.Stop()
		if spin.Cancelled() {
			return ctx.Err()
		}
		if err != nil {
			return err
		}

		if err := writeArtifacts(input, kind, result, multiple, opts); err != nil {
			return err
		}
		printStats(result.Stats.Rows, result.Stats.Columns, result.CacheInfo.RenderHit)
	}

	return nil
}

// writeArtifacts writes each rendered format to its output file.
// Single kind/format runs honor --output verbatim; multiple runs derive
// base_kind.format names from the base path.
func writeArtifacts(input, kind string, result *pipeline.Result, multiple bool, opts *plotOpts) error {
	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	if len(formats) > 1 {
		multiple = true
	}

	base := basePath(opts.output, input)
	for _, format := range formats {
		var path string
		switch {
		case !multiple && opts.output != "":
			path = opts.output
		case !multiple:
			path = fmt.Sprintf("%s.%s", base, format)
		default:
			path = fmt.Sprintf("%s_%s.%s", base, kind, format)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// parseKinds parses the --type flag into a slice of plot kinds.
// If empty, defaults to [waterfall].
func parseKinds(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultPlot}
	}
	return strings.Split(s, ",")
}

// splitList parses a comma-separated flag into a slice, empty means none.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in
// one of the known artifact extensions, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch render.Format(strings.TrimPrefix(ext, ".")) {
	case render.FormatSVG, render.FormatPNG, render.FormatHTML, render.FormatDOT:
		return strings.TrimSuffix(output, ext)
	}
	return output
}
