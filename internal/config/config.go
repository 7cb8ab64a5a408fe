// Package config resolves runtime settings from defaults, an optional YAML
// file and TASKRANK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/taskrank/internal/analysis"
	"github.com/sandeepkv93/taskrank/internal/model"
)

type RuntimeConfig struct {
	APIBaseURL            string         `yaml:"api_base_url"`
	DefaultStrategy       model.Strategy `yaml:"strategy"`
	ExportDir             string         `yaml:"export_dir"`
	ToastSeconds          int            `yaml:"toast_seconds"`
	RequestTimeoutSeconds int            `yaml:"request_timeout_seconds"`
	DesktopNotifications  bool           `yaml:"desktop_notifications"`
	HistoryLimit          int            `yaml:"history_limit"`
	LogFile               string         `yaml:"log_file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		APIBaseURL:            analysis.DefaultBaseURL,
		DefaultStrategy:       model.StrategySmartBalance,
		ExportDir:             ".",
		ToastSeconds:          3,
		RequestTimeoutSeconds: 0,
		DesktopNotifications:  false,
		HistoryLimit:          20,
		LogFile:               "",
	}
}

// Load applies the YAML file at path (if any) and then the environment.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := LoadFile(DefaultRuntimeConfig(), path)
	if err != nil {
		return cfg, err
	}
	return RuntimeConfigFromEnv(cfg), nil
}

// LoadFile overlays the YAML document at path on base. An empty path or a
// missing file leaves base unchanged.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalize(base), nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKRANK_API_BASE_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := getEnvString("TASKRANK_STRATEGY"); ok {
		cfg.DefaultStrategy = model.Strategy(v)
	}
	if v, ok := getEnvString("TASKRANK_EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := getEnvInt("TASKRANK_TOAST_SECONDS"); ok && v > 0 {
		cfg.ToastSeconds = v
	}
	if v, ok := getEnvInt("TASKRANK_REQUEST_TIMEOUT_SECONDS"); ok && v >= 0 {
		cfg.RequestTimeoutSeconds = v
	}
	if v, ok := getEnvBool("TASKRANK_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TASKRANK_HISTORY_LIMIT"); ok && v > 0 {
		cfg.HistoryLimit = v
	}
	if v, ok := getEnvString("TASKRANK_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg.normalize(base)
}

// normalize puts back fallback values for anything a file or env left unusable.
func (c RuntimeConfig) normalize(fallback RuntimeConfig) RuntimeConfig {
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = fallback.APIBaseURL
	}
	if !c.DefaultStrategy.IsValid() {
		c.DefaultStrategy = fallback.DefaultStrategy
		if !c.DefaultStrategy.IsValid() {
			c.DefaultStrategy = model.StrategySmartBalance
		}
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		c.ExportDir = fallback.ExportDir
	}
	if c.ToastSeconds <= 0 {
		c.ToastSeconds = fallback.ToastSeconds
	}
	if c.RequestTimeoutSeconds < 0 {
		c.RequestTimeoutSeconds = fallback.RequestTimeoutSeconds
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = fallback.HistoryLimit
	}
	return c
}

func (c RuntimeConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

// RequestTimeout is zero when requests should not time out.
func (c RuntimeConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
