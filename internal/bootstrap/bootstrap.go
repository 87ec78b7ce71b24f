// Package bootstrap turns the application config into an operator registry
// and a ready hafas client. The CLI and the REST server share it.
package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/r9s-ai/hafas-rest-client/internal/config"
	"github.com/r9s-ai/hafas-rest-client/internal/transport"
	"github.com/r9s-ai/hafas-rest-client/internal/version"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient"
	"github.com/r9s-ai/hafas-rest-client/pkg/operators"
)

// LoadRegistry returns the built-in operators plus those in
// cfg.Operators.Dir.
func LoadRegistry(cfg *config.Config) (*operators.Registry, operators.LoadResult, error) {
	reg := operators.NewRegistry()
	res, err := reg.ReloadFromDir(cfg.Operators.Dir)
	if err != nil {
		return nil, operators.LoadResult{}, fmt.Errorf("load operators dir %q: %w", cfg.Operators.Dir, err)
	}
	return reg, res, nil
}

// Overrides is the top profile layer built from the client config.
func Overrides(cfg *config.Config) hafas.Profile {
	ua := strings.TrimSpace(cfg.Client.UserAgent)
	if ua == "" {
		ua = version.UserAgent()
	}
	return hafas.Profile{
		AccessID:  strings.TrimSpace(cfg.Client.AccessID),
		UserAgent: ua,
		Language:  strings.TrimSpace(cfg.Client.Language),
	}
}

// Options tweak NewClient.
type Options struct {
	// HTTP replaces the transport built from cfg.Client.
	HTTP httpclient.HTTPDoer
	// DebugOut receives the debug echo when cfg.Client.Debug is set.
	DebugOut io.Writer
}

// NewClient composes the profile of cfg.Operator and builds a client for it.
func NewClient(cfg *config.Config, reg *operators.Registry, opts Options) (*hafas.Client, error) {
	p, err := reg.Profile(cfg.Operator, Overrides(cfg))
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", cfg.Operator, err)
	}
	doer := opts.HTTP
	if doer == nil {
		hc, err := transport.NewHTTPClient(transport.Options{
			Timeout:  time.Duration(cfg.Client.TimeoutMs) * time.Millisecond,
			ProxyURL: cfg.Client.ProxyURL,
		})
		if err != nil {
			return nil, err
		}
		doer = hc
	}
	return hafas.New(p, hafas.Config{
		HTTPClient: doer,
		Debug:      cfg.Client.Debug,
		DebugOut:   opts.DebugOut,
	})
}
