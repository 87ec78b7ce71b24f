package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/hafas-rest-client/internal/tui"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

func newTUICmd(root *rootOptions) *cobra.Command {
	var (
		flags   boardFlags
		arrival bool
		refresh time.Duration
	)
	cmd := &cobra.Command{
		Use:   "board <stop id>",
		Short: "Open a live departure or arrival board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := root.client(cmd)
			if err != nil {
				return err
			}
			p := c.Profile()
			if _, err := flags.options(cmd, p); err != nil {
				return err
			}
			dir := hafas.DirectionDeparture
			list := c.Departures
			title := "Departures " + args[0]
			if arrival {
				dir = hafas.DirectionArrival
				list = c.Arrivals
				title = "Arrivals " + args[0]
			}
			stop := hafas.ByID(args[0])
			// Relative --when values move along with every refresh.
			fetch := func(ctx context.Context) ([]hafas.Alternative, error) {
				opt, err := flags.options(cmd, p)
				if err != nil {
					return nil, err
				}
				return list(ctx, stop, opt)
			}
			return tui.Run(fetch, tui.Options{
				Title:     title + " (" + cfg.Operator + ")",
				Direction: dir,
				Refresh:   refresh,
				Location:  p.Location(),
				Timeout:   time.Duration(cfg.Client.TimeoutMs) * time.Millisecond,
			}, os.Stdin, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&arrival, "arrivals", false, "show arrivals instead of departures")
	cmd.Flags().DurationVar(&refresh, "refresh", 30*time.Second, "reload interval, 0 disables")
	return cmd
}
