package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chouse/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve registry lookups over HTTP",
		Long: `Start a read-only HTTP API in front of the registry:

  GET /healthz
  GET /company/{id}
  GET /search?q=NAME
  GET /fetch?url=/PATH

Unknown companies answer 404 with {}. Registry rejections are relayed with
their original status and body.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			client, closeCache, err := c.newClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			return server.New(client, logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides server.addr)")
	return cmd
}
