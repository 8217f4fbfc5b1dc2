package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeline/internal/server"
	"github.com/matzehuels/timeline/pkg/cache"
	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

  GET  /healthz     liveness and version
  POST /v1/render   render the events in the request body

Requests are laid over the settings from --config. Artifacts are cached in
Redis when ` + envRedisURL + ` is set, in the local cache directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, noCache, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration used as request defaults")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, configPath string, noCache bool, timeout time.Duration) error {
	defaults := config.Default()
	if configPath != "" {
		var err error
		if defaults, err = config.Load(configPath); err != nil {
			return err
		}
	}

	ch, backend, err := newSharedCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "server:"), logger)
	defer runner.Close()

	srv, err := server.New(server.Config{
		Addr:           addr,
		Runner:         runner,
		Logger:         logger,
		Defaults:       defaults,
		RequestTimeout: timeout,
	})
	if err != nil {
		return err
	}

	printSuccess("Serving timeline API")
	printKeyValue("Address", "http://"+srv.Addr())
	printKeyValue("Cache", backend)
	if backend == "none" {
		printWarning("Caching disabled; every request renders from scratch")
	}
	printNewline()

	return srv.ListenAndServe(ctx)
}
