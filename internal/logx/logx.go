// Package logx formats single-line request logs for the hafas server and CLI.
package logx

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
)

var enableColor = isatty.IsTerminal(os.Stdout.Fd()) && strings.TrimSpace(os.Getenv("NO_COLOR")) == ""

// ColorEnabled reports whether stdout is a terminal and NO_COLOR is unset.
func ColorEnabled() bool { return enableColor }

const (
	reset  = "\x1b[0m"
	red    = "\x1b[31m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	cyan   = "\x1b[36m"
)

func ColorizeStatus(status int) string {
	return ColorizeStatusWith(status, enableColor)
}

func ColorizeStatusWith(status int, color bool) string {
	s := fmt.Sprintf("%d", status)
	if !color {
		return s
	}
	switch {
	case status >= 200 && status < 300:
		return green + s + reset
	case status >= 300 && status < 400:
		return cyan + s + reset
	case status >= 400 && status < 500:
		return yellow + s + reset
	default:
		return red + s + reset
	}
}

// Warn returns "WARNING", highlighted when colour is on.
func Warn(color bool) string {
	if !color {
		return "WARNING"
	}
	return "\x1b[1;33mWARNING" + reset
}

// FormatRequestLine prints a single line request log.
//
// Example:
// [HAFAS] 2026/01/26 - 17:44:22 | 200 | 12.3ms | 127.0.0.1 | GET "/journeys" | operator=vbb results=3
func FormatRequestLine(e Entry, color bool) string {
	base := fmt.Sprintf(
		`[HAFAS] %s | %s | %s | %s | %s %q`,
		e.Time.Format(timeLayout),
		ColorizeStatusWith(e.Status, color),
		e.Latency.String(),
		strings.TrimSpace(e.ClientIP),
		strings.TrimSpace(e.Method),
		e.Path,
	)
	if extra := formatFields(e.Fields); extra != "" {
		return base + " | " + extra
	}
	return base
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s := fieldString(fields[k])
		if s == "" {
			continue
		}
		parts = append(parts, k+"="+s)
	}
	return strings.Join(parts, " ")
}

func fieldString(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "<nil>" {
		return ""
	}
	return s
}
