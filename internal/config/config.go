// Package config loads the application config of the hafas command: which
// operator to use, client credentials, the REST server and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultOperator = "vbb"

type OperatorsConfig struct {
	// Dir holds extra operator *.yaml files. Empty means built-ins only.
	Dir string `yaml:"dir"`
	// AutoReload watches dir and reloads operator files at runtime.
	AutoReload struct {
		Enabled    bool `yaml:"enabled"`
		DebounceMs int  `yaml:"debounce_ms" validate:"gte=0"`
	} `yaml:"auto_reload"`
}

type ClientConfig struct {
	AccessID  string `yaml:"access_id"`
	UserAgent string `yaml:"user_agent"`
	Language  string `yaml:"language" validate:"omitempty,alpha,len=2"`
	Debug     bool   `yaml:"debug"`
	TimeoutMs int    `yaml:"timeout_ms" validate:"gte=0"`
	// ProxyURL overrides the HTTP(S)_PROXY environment for upstream calls.
	ProxyURL string `yaml:"proxy_url" validate:"omitempty,url"`
}

type ServerConfig struct {
	Listen         string `yaml:"listen" validate:"required"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms" validate:"gt=0"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms" validate:"gt=0"`
	// APIKey, when set, is required as "Authorization: Bearer" or
	// "x-api-key" on every route but /healthz.
	APIKey  string `yaml:"api_key"`
	PidFile string `yaml:"pid_file"`
}

type LoggingConfig struct {
	AccessLog bool `yaml:"access_log"`
	// AccessLogPath appends the access log to a file instead of stdout.
	AccessLogPath         string `yaml:"access_log_path"`
	AccessLogFormat       string `yaml:"access_log_format"`
	AccessLogFormatPreset string `yaml:"access_log_format_preset" validate:"omitempty,oneof=hafas_combined hafas_minimal"`

	accessLogSet bool `yaml:"-"`
}

func (c *LoggingConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawLogging struct {
		AccessLog             bool   `yaml:"access_log"`
		AccessLogPath         string `yaml:"access_log_path"`
		AccessLogFormat       string `yaml:"access_log_format"`
		AccessLogFormatPreset string `yaml:"access_log_format_preset"`
	}
	var raw rawLogging
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.AccessLog = raw.AccessLog
	c.AccessLogPath = raw.AccessLogPath
	c.AccessLogFormat = raw.AccessLogFormat
	c.AccessLogFormatPreset = raw.AccessLogFormatPreset
	c.accessLogSet = false
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if strings.TrimSpace(value.Content[i].Value) == "access_log" {
			c.accessLogSet = true
		}
	}
	return nil
}

type Config struct {
	Operator  string          `yaml:"operator" validate:"required"`
	Operators OperatorsConfig `yaml:"operators"`
	Client    ClientConfig    `yaml:"client"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads path, applies defaults and HAFAS_* environment overrides and
// validates the result. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		// #nosec G304 -- path is provided by trusted config/flag.
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the config Load would produce without a file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Operator) == "" {
		cfg.Operator = DefaultOperator
	}
	cfg.Operator = strings.ToLower(strings.TrimSpace(cfg.Operator))
	if cfg.Operators.AutoReload.DebounceMs <= 0 {
		cfg.Operators.AutoReload.DebounceMs = 300
	}
	if cfg.Client.TimeoutMs <= 0 {
		cfg.Client.TimeoutMs = 30000
	}
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":3400"
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 60000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 60000
	}
	// default true unless the file says otherwise
	if !cfg.Logging.accessLogSet {
		cfg.Logging.AccessLog = true
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("HAFAS_OPERATOR")); v != "" {
		cfg.Operator = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_OPERATORS_DIR")); v != "" {
		cfg.Operators.Dir = v
	}
	cfg.Operators.AutoReload.Enabled = envBool("HAFAS_OPERATORS_AUTO_RELOAD_ENABLED", cfg.Operators.AutoReload.Enabled)
	if n, ok := envInt("HAFAS_OPERATORS_AUTO_RELOAD_DEBOUNCE_MS"); ok {
		cfg.Operators.AutoReload.DebounceMs = n
	}

	if v := strings.TrimSpace(os.Getenv("HAFAS_ACCESS_ID")); v != "" {
		cfg.Client.AccessID = v
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_USER_AGENT")); v != "" {
		cfg.Client.UserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_LANGUAGE")); v != "" {
		cfg.Client.Language = v
	}
	cfg.Client.Debug = envBool("HAFAS_DEBUG", cfg.Client.Debug)
	if n, ok := envInt("HAFAS_TIMEOUT_MS"); ok && n > 0 {
		cfg.Client.TimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_PROXY_URL")); v != "" {
		cfg.Client.ProxyURL = v
	}

	if v := strings.TrimSpace(os.Getenv("HAFAS_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if n, ok := envInt("HAFAS_READ_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.ReadTimeoutMs = n
	}
	if n, ok := envInt("HAFAS_WRITE_TIMEOUT_MS"); ok && n > 0 {
		cfg.Server.WriteTimeoutMs = n
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_API_KEY")); v != "" {
		cfg.Server.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_PID_FILE")); v != "" {
		cfg.Server.PidFile = v
	}

	cfg.Logging.AccessLog = envBool("HAFAS_ACCESS_LOG", cfg.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("HAFAS_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
	if v := os.Getenv("HAFAS_ACCESS_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		cfg.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("HAFAS_ACCESS_LOG_FORMAT_PRESET")); v != "" {
		cfg.Logging.AccessLogFormatPreset = v
	}
}

var validate = func() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(cfg *Config) error {
		if cfg.Operators.AutoReload.Enabled {
			if strings.TrimSpace(cfg.Operators.Dir) == "" {
				return errors.New("operators.dir is required when operators.auto_reload.enabled=true")
			}
			if cfg.Operators.AutoReload.DebounceMs <= 0 {
				return errors.New("operators.auto_reload.debounce_ms must be > 0 when operators.auto_reload.enabled=true")
			}
		}
		if err := v.Struct(cfg); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return fmt.Errorf("invalid config %s: failed on %q", fe.Namespace(), fe.Tag())
			}
			return err
		}
		return nil
	}
}()

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
