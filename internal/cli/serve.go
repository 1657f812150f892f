package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmaspons/shapviz/pkg/httpapi"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address, overrides the config file
	storeDir string // file store directory, overrides the config file
	noCache  bool   // serve without an artifact cache
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explanation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "file store directory (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "serve without an artifact cache")

	return cmd
}

// runServe builds the store and runner from configuration and serves the
// API until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.API.Addr = opts.addr
	}
	if opts.storeDir != "" {
		cfg.Store.Dir = opts.storeDir
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	api := httpapi.NewServer(st, runner, c.Logger)
	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving explanation API", "addr", cfg.API.Addr, "store", cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
