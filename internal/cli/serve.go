package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. The cache and store backends come from the config file and
CLASSDIAGRAM_* environment variables; --addr overrides the listen address.`,
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
			shutdown, err := cfg.ShutdownTimeout()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			c.Logger.Debug("config", "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)

			srv := server.New(server.Options{
				Runner:          runner,
				Store:           st,
				Logger:          c.Logger,
				Container:       cfg.Render.Container,
				MaxBodyBytes:    cfg.Server.MaxBodyBytes,
				ShutdownTimeout: shutdown,
			})
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}
