package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// collapseOpts holds the command-line flags for the collapse command.
type collapseOpts struct {
	output   string   // output file path (default input_collapsed.json)
	format   string   // input format (empty means auto-detect)
	features string   // sidecar feature table path
	groups   []string // one-hot groups, "parent=child1,child2"
	noCache  bool     // bypass the cache entirely
}

// collapseCommand creates the collapse command. It folds one-hot encoded
// children into their parent feature and re-exports the explanation.
func (c *CLI) collapseCommand() *cobra.Command {
	var opts collapseOpts

	cmd := &cobra.Command{
		Use:   "collapse [file]",
		Short: "Fold one-hot encoded features and re-export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollapse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>_collapsed.json)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format (default auto-detect)")
	cmd.Flags().StringVar(&opts.features, "features", "", "sidecar feature table (CSV)")
	cmd.Flags().StringArrayVar(&opts.groups, "group", nil, "one-hot group to fold, parent=child1,child2 (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

// runCollapse loads the explanation with the requested groups folded and
// writes the result as a shapviz document.
func (c *CLI) runCollapse(ctx context.Context, input string, opts *collapseOpts) error {
	collapse, err := parseGroups(opts.groups)
	if err != nil {
		return err
	}
	if len(collapse) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one --group is required")
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

	prog := newProgress(c.Logger)
	exp, err := runner.Load(ctx, pipeline.Options{
		Input:        input,
		Format:       opts.format,
		FeaturesPath: opts.features,
		Collapse:     collapse,
		Logger:       c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Collapsed %d group(s)", len(collapse)))

	output := opts.output
	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "_collapsed.json"
	}
	if err := shapio.Export(exp, output); err != nil {
		return err
	}

	printSuccess("Wrote %d × %d explanation", exp.Rows(), len(exp.Columns()))
	printFile(output)
	return nil
}
