package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	format   string   // input format (empty means auto-detect)
	features string   // path to a sidecar feature table
	baseline float64  // baseline override
	collapse []string // one-hot groups, "parent=child1,child2"
	top      int      // number of features in the importance ranking
	noCache  bool     // bypass the cache entirely
	refresh  bool     // recompute and overwrite cached entries
}

// inspectCommand creates the inspect command. With a file argument it
// loads and summarizes that explanation; without one it opens an
// interactive picker over the configured store.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a SHAP explanation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var baseline *float64
				if cmd.Flags().Changed("baseline") {
					baseline = &opts.baseline
				}
				return c.runInspectFile(cmd.Context(), args[0], baseline, &opts)
			}
			return c.runInspectStore(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format (default auto-detect)")
	cmd.Flags().StringVar(&opts.features, "features", "", "sidecar feature table (CSV)")
	cmd.Flags().Float64Var(&opts.baseline, "baseline", 0, "baseline override")
	cmd.Flags().StringArrayVar(&opts.collapse, "group", nil, "one-hot group to fold, parent=child1,child2 (repeatable)")
	cmd.Flags().IntVar(&opts.top, "top", 10, "features shown in the importance ranking")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached entries")

	return cmd
}

// runInspectFile loads an explanation from a file and prints its summary.
func (c *CLI) runInspectFile(ctx context.Context, input string, baseline *float64, opts *inspectOpts) error {
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

	prog := newProgress(c.Logger)
	exp, _, hit, err := runner.LoadWithCacheInfo(ctx, pipeline.Options{
		Input:        input,
		Format:       opts.format,
		FeaturesPath: opts.features,
		Baseline:     baseline,
		Collapse:     collapse,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %s", input))

	printSummary(exp, opts.top, hit)
	printNewline()
	printNextStep("Render it", fmt.Sprintf("shapviz plot %s", input))
	return nil
}

// runInspectStore lists the configured store and summarizes the picked entry.
func (c *CLI) runInspectStore(ctx context.Context, opts *inspectOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("Store is empty")
		printNextStep("Upload one", "curl -X POST --data-binary @explanation.json localhost:8080/explanations")
		return nil
	}

	picked, err := pickExplanation(entries)
	if err != nil {
		return err
	}
	if picked == nil {
		return nil
	}

	rec, err := st.Get(ctx, picked.ID)
	if err != nil {
		return err
	}
	exp, err := shapio.ToExplanation(*rec.Document)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "stored document no longer valid")
	}

	printKeyValue("ID", rec.ID)
	if rec.Name != "" {
		printKeyValue("Name", rec.Name)
	}
	printSummary(exp, opts.top, false)
	return nil
}

// printSummary prints the dimensions, baseline, and importance ranking of
// an explanation.
func printSummary(exp *explain.Explanation, top int, cached bool) {
	columns := exp.Columns()

	printKeyValue("Observations", fmt.Sprintf("%d", exp.Rows()))
	printKeyValue("Features", fmt.Sprintf("%d", len(columns)))
	printKeyValue("Baseline", fmt.Sprintf("%g", exp.Baseline()))
	if exp.HasInteractions() {
		printKeyValue("Interactions", "yes")
	}
	printStats(exp.Rows(), len(columns), cached)

	meanAbs := exp.MeanAbs()
	byName := make(map[string]float64, len(columns))
	for i, name := range columns {
		byName[name] = meanAbs[i]
	}

	order := exp.Order()
	if top > 0 && len(order) > top {
		order = order[:top]
	}
	if len(order) == 0 {
		return
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Mean |SHAP|"))
	max := byName[order[0]]
	for _, name := range order {
		printBar(name, byName[name], max, 30)
	}
}

// parseGroups parses repeated "parent=child1,child2" flags into collapse
// groups.
func parseGroups(specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	groups := make(map[string][]string, len(specs))
	for _, s := range specs {
		parent, children, ok := strings.Cut(s, "=")
		if !ok || parent == "" || children == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid group %q (want parent=child1,child2)", s)
		}
		groups[parent] = strings.Split(children, ",")
	}
	return groups, nil
}
