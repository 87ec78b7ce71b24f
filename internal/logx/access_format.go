package logx

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Entry is one finished request as seen by the access log.
type Entry struct {
	Time     time.Time
	Status   int
	Latency  time.Duration
	ClientIP string
	Method   string
	Path     string
	// Fields carry the per-request values, e.g. operator or hafas_code.
	Fields map[string]any
}

func (e Entry) lookup(name string, color bool) string {
	switch name {
	case "time_local":
		return e.Time.Format(timeLayout)
	case "status":
		return ColorizeStatusWith(e.Status, color)
	case "latency":
		return e.Latency.String()
	case "latency_ms":
		return strconv.FormatInt(e.Latency.Milliseconds(), 10)
	case "client_ip":
		return strings.TrimSpace(e.ClientIP)
	case "method":
		return strings.TrimSpace(e.Method)
	case "path":
		return e.Path
	}
	return fieldString(e.Fields[name])
}

const timeLayout = "2006/01/02 - 15:04:05"

// AccessLogFormatter renders a compiled "$var" access log template.
// Even tokens are literals, odd tokens variable names.
type AccessLogFormatter struct {
	tokens []string
}

var accessLogFormatPresets = map[string]string{
	"hafas_combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id operator=$operator hafas_method=$hafas_method hafas_status=$hafas_status hafas_code=$hafas_code hafas_error=$hafas_error results=$results",
	"hafas_minimal":  "$time_local | $status | $latency | $method $path | request_id=$request_id operator=$operator hafas_code=$hafas_code",
}

var accessLogVars = []string{
	"client_ip", "hafas_code", "hafas_error", "hafas_method", "hafas_status",
	"latency", "latency_ms", "method", "operator", "path", "request_id",
	"results", "status", "time_local",
}

// ResolveAccessLogFormat returns format when set, else the named preset.
func ResolveAccessLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	name := strings.ToLower(strings.TrimSpace(preset))
	if name == "" {
		return "", nil
	}
	out, ok := accessLogFormatPresets[name]
	if !ok {
		return "", fmt.Errorf("invalid access_log_format_preset: %q", preset)
	}
	return out, nil
}

func isVarByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// CompileAccessLogFormat parses a template. "$$" is a literal dollar. An
// empty template yields a nil formatter.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}
	var (
		tokens []string
		lit    strings.Builder
		rest   = format
	)
	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		lit.WriteString(rest[:i])
		rest = rest[i+1:]
		if strings.HasPrefix(rest, "$") {
			lit.WriteByte('$')
			rest = rest[1:]
			continue
		}
		n := 0
		for n < len(rest) && isVarByte(rest[n]) {
			n++
		}
		pos := len(format) - len(rest) - 1
		if n == 0 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", pos)
		}
		name := rest[:n]
		if !slices.Contains(accessLogVars, name) {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", name)
		}
		tokens = append(tokens, lit.String(), name)
		lit.Reset()
		rest = rest[n:]
	}
	tokens = append(tokens, lit.String())
	return &AccessLogFormatter{tokens: tokens}, nil
}

// Format renders one line. Unset variables print as "-".
func (f *AccessLogFormatter) Format(e Entry, color bool) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	for i, tok := range f.tokens {
		if i%2 == 0 {
			b.WriteString(tok)
			continue
		}
		v := strings.TrimSpace(e.lookup(tok, color))
		if v == "" {
			v = "-"
		}
		b.WriteString(v)
	}
	return b.String()
}

// AccessLogAllowedVars lists the variables a template may use.
func AccessLogAllowedVars() []string {
	return slices.Clone(accessLogVars)
}
