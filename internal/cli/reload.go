package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newReloadCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask a running server to reload its operator files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			pid, err := readPID(cfg.Server.PidFile)
			if err != nil {
				return err
			}
			p, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("find process pid=%d: %w", pid, err)
			}
			if err := p.Signal(syscall.SIGHUP); err != nil {
				return fmt.Errorf("send SIGHUP pid=%d: %w", pid, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reload signal sent to pid %d\n", pid)
			return err
		},
	}
}

func readPID(path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("server.pid_file is not configured")
	}
	// #nosec G304 -- pid file path comes from trusted config/env.
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pid file %q: %w", path, err)
	}
	s := strings.TrimSpace(string(b))
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %q: %q", path, s)
	}
	return pid, nil
}
