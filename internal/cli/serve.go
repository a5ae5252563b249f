package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/layout           scene JSON in, layout JSON out
  POST /v1/render?format=   svg, json, dot, tree or text
  GET  /v1/stats

Seeds are kept per session in the configured store ([store] in the config
file). Clients pass the session id back in the X-Linkdrift-Session header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("Seed store: %s", cfg.Store.Backend)
			return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
