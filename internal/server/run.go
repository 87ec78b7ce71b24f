// Package server is a small REST facade over the hafas client: one HTTP
// endpoint per client operation, JSON in the client's own types.
package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/r9s-ai/hafas-rest-client/internal/bootstrap"
	"github.com/r9s-ai/hafas-rest-client/internal/config"
	"github.com/r9s-ai/hafas-rest-client/internal/logx"
)

const requestIDHeaderKey = "X-Hafas-Request-Id"

// Run loads cfgPath and serves until the listener fails.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return Serve(cfg)
}

// Serve runs the REST facade for an already loaded config.
func Serve(cfg *config.Config) error {
	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	reg, loadRes, err := bootstrap.LoadRegistry(cfg)
	if err != nil {
		return err
	}
	logSkippedOperators(cfg.Operators.Dir, loadRes.SkippedFiles, false)

	st, err := newState(cfg, reg, bootstrap.Options{})
	if err != nil {
		return err
	}

	reloadMu := &sync.Mutex{}
	installReloadSignalHandler(st, reloadMu)
	autoReloadClose, err := installOperatorsAutoReload(st, reloadMu)
	if err != nil {
		return fmt.Errorf("init operators auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}
	engine := newRouter(st, RouterOptions{
		AccessLog:          cfg.Logging.AccessLog,
		AccessLogger:       accessLogger,
		AccessLoggerColor:  accessColor,
		AccessFormatter:    accessFormatter,
		RequestIDHeaderKey: requestIDHeaderKey,
		APIKey:             cfg.Server.APIKey,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
	}
	log.Printf("hafas rest facade listening on %s (operator=%s)", cfg.Server.Listen, cfg.Operator)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, false, nil
	}
	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", 0), nil, logx.ColorEnabled(), nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", 0), f, false, nil
}

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	tmp := path + ".tmp"
	pid := strconv.Itoa(os.Getpid()) + "\n"
	// #nosec G304 -- pid_file comes from trusted config/env.
	if err := os.WriteFile(tmp, []byte(pid), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}

func installReloadSignalHandler(st *state, mu *sync.Mutex) {
	if st == nil || mu == nil {
		return
	}
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			mu.Lock()
			res, err := reloadOperatorsRuntime(st)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (signal): %v", err)
				continue
			}
			log.Printf("reload ok (signal): operators_dir=%q changed_operators=%s", st.cfg.Operators.Dir, operatorNamesForLog(res.Changed))
		}
	}()
}
