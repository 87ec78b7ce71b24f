package server

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/r9s-ai/hafas-rest-client/internal/bootstrap"
	"github.com/r9s-ai/hafas-rest-client/internal/config"
	"github.com/r9s-ai/hafas-rest-client/internal/logx"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/operators"
)

// state holds the client of the configured operator. Reloads swap it
// atomically; handlers take a snapshot per request.
type state struct {
	cfg       *config.Config
	reg       *operators.Registry
	buildOpts bootstrap.Options
	startedAt time.Time

	mu     sync.RWMutex
	client *hafas.Client
}

func newState(cfg *config.Config, reg *operators.Registry, opts bootstrap.Options) (*state, error) {
	if cfg == nil || reg == nil {
		return nil, errors.New("server: nil config or registry")
	}
	st := &state{cfg: cfg, reg: reg, buildOpts: opts, startedAt: time.Now()}
	if err := st.rebuild(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *state) Client() *hafas.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *state) Operator() string { return s.cfg.Operator }

func (s *state) rebuild() error {
	c, err := bootstrap.NewClient(s.cfg, s.reg, s.buildOpts)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.client = c
	s.mu.Unlock()
	return nil
}

// reloadOperatorsRuntime rereads the operators dir and rebuilds the client
// when the active operator changed. A failed rebuild keeps the old client.
func reloadOperatorsRuntime(st *state) (operators.LoadResult, error) {
	if st == nil {
		return operators.LoadResult{}, errors.New("reload operators: nil state")
	}
	res, err := st.reg.ReloadFromDir(st.cfg.Operators.Dir)
	if err != nil {
		return operators.LoadResult{}, fmt.Errorf("reload operators dir %q: %w", st.cfg.Operators.Dir, err)
	}
	logSkippedOperators(st.cfg.Operators.Dir, res.SkippedFiles, true)
	if slices.Contains(res.Changed, st.Operator()) {
		if err := st.rebuild(); err != nil {
			return res, fmt.Errorf("rebuild client for operator %s: %w", st.Operator(), err)
		}
	}
	return res, nil
}

func logSkippedOperators(dir string, skipped []string, reloading bool) {
	if len(skipped) == 0 {
		return
	}
	phase := "load"
	if reloading {
		phase = "reload"
	}
	log.Printf("[HAFAS] %s [operators/%s] dir=%q skipped_invalid_files=%s", logx.Warn(logx.ColorEnabled()), phase, dir, strings.Join(skipped, ", "))
}

func operatorNamesForLog(names []string) string {
	if len(names) == 0 {
		return "<none>"
	}
	return strings.Join(names, ",")
}
