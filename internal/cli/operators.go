package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/hafas-rest-client/pkg/operators"
)

func newOperatorsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "List and check operator definitions",
	}
	cmd.AddCommand(newOperatorsListCmd(root), newOperatorsValidateCmd())
	return cmd
}

func newOperatorsListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			reg, err := root.registry(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			type entry struct {
				Name     string `json:"name"`
				Endpoint string `json:"endpoint"`
				Timezone string `json:"timezone"`
				Products int    `json:"products"`
				Source   string `json:"source"`
				Active   bool   `json:"active"`
			}
			var entries []entry
			for _, name := range reg.Names() {
				f, ok := reg.Get(name)
				if !ok {
					continue
				}
				entries = append(entries, entry{
					Name:     name,
					Endpoint: f.Endpoint,
					Timezone: f.Timezone,
					Products: len(f.Products),
					Source:   f.Path,
					Active:   name == cfg.Operator,
				})
			}
			if root.json {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name
				if e.Active {
					name += " *"
				}
				rows = append(rows, []string{name, e.Endpoint, e.Timezone, strconv.Itoa(e.Products), e.Source})
			}
			return printTable(cmd.OutOrStdout(), []string{"operator", "endpoint", "timezone", "products", "source"}, rows)
		},
	}
}

func newOperatorsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate every operator file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := operators.ValidateDir(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d operator(s) %v\n", len(names), names)
			return err
		},
	}
}
