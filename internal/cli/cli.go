// Package cli implements the shapviz command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jmaspons/shapviz/pkg/cache"
	"github.com/jmaspons/shapviz/pkg/config"
	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "shapviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value; empty means discovery via
	// config.Path.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "shapviz",
		Short:        "Shapviz turns SHAP explanations into plots",
		Long:         `Shapviz is a CLI tool for inspecting SHAP explanation containers and rendering them as waterfall, force, importance, beeswarm, dependence, and interaction network plots.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(versionTemplate())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shapviz/config.toml)")

	// Register all subcommands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

// newCache builds the cache backend named by the configuration. A file
// cache that cannot be created degrades to a null cache rather than
// failing the command.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		fc, err := cache.NewFileCache(cfg.CacheDir())
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// newStore builds the explanation store named by the configuration.
func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.Backend == "mongo" {
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
	}
	return store.NewFileStore(cfg.StoreDir())
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyPlotDefaults fills plot options from the configuration file when
// the corresponding flags were left at their zero value.
func applyPlotDefaults(opts *pipeline.Options, cfg config.Config) {
	if opts.MaxFeatures == 0 && cfg.Plot.MaxFeatures > 0 {
		opts.MaxFeatures = cfg.Plot.MaxFeatures
	}
	if opts.Width == 0 && cfg.Plot.Width > 0 {
		opts.Width = cfg.Plot.Width
	}
}
