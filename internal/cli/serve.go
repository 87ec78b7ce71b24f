package cli

import (
	"github.com/spf13/cobra"

	"github.com/r9s-ai/hafas-rest-client/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the operations as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return server.Serve(cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides config")
	return cmd
}
