// Package cli implements the hafas command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/hafas-rest-client/internal/bootstrap"
	"github.com/r9s-ai/hafas-rest-client/internal/config"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient"
	"github.com/r9s-ai/hafas-rest-client/pkg/operators"
)

type rootOptions struct {
	cfgPath  string
	operator string
	accessID string
	language string
	debug    bool
	json     bool

	// http replaces the transport; tests inject a fake.
	http httpclient.HTTPDoer
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: "+err.Error())
		return exitCode(err)
	}
	return 0
}

// exitCode is 2 for bad input, 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, hafas.ErrValidation) || errors.Is(err, hafas.ErrInvalidRequest) {
		return 2
	}
	return 1
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hafas",
		Short:         "Query HAFAS trip planning APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.cfgPath, "config", "c", "", "config yaml path (optional)")
	pf.StringVarP(&opts.operator, "operator", "o", "", "operator name, overrides config")
	pf.StringVar(&opts.accessID, "access-id", "", "operator access id, overrides config and HAFAS_ACCESS_ID")
	pf.StringVar(&opts.language, "language", "", "response language, e.g. de or en")
	pf.BoolVar(&opts.debug, "debug", false, "print request urls and raw responses to stderr")
	pf.BoolVar(&opts.json, "json", false, "print json instead of a table")

	cmd.AddCommand(
		newLocationsCmd(opts),
		newNearbyCmd(opts),
		newBoardCmd(opts, hafas.DirectionDeparture),
		newBoardCmd(opts, hafas.DirectionArrival),
		newJourneysCmd(opts),
		newProfileCmd(opts),
		newOperatorsCmd(opts),
		newServeCmd(opts),
		newReloadCmd(opts),
		newTUICmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(strings.TrimSpace(o.cfgPath))
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(o.operator); v != "" {
		cfg.Operator = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.accessID); v != "" {
		cfg.Client.AccessID = v
	}
	if v := strings.TrimSpace(o.language); v != "" {
		cfg.Client.Language = v
	}
	if o.debug {
		cfg.Client.Debug = true
	}
	return cfg, nil
}

func (o *rootOptions) registry(cfg *config.Config, stderr io.Writer) (*operators.Registry, error) {
	reg, res, err := bootstrap.LoadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	for _, s := range res.SkippedFiles {
		_, _ = fmt.Fprintf(stderr, "warning: skipped operator file %s\n", s)
	}
	return reg, nil
}

// client builds the client of the selected operator.
func (o *rootOptions) client(cmd *cobra.Command) (*hafas.Client, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := o.registry(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	c, err := bootstrap.NewClient(cfg, reg, bootstrap.Options{HTTP: o.http, DebugOut: cmd.ErrOrStderr()})
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}
