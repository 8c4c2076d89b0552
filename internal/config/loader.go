package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CHATLINE"

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	// Config file is optional unless explicitly specified.
	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// expandPaths expands ~ in all path-related config fields.
func expandPaths(cfg *Config) {
	cfg.History.Path = expandTilde(cfg.History.Path)
	cfg.Logging.File = expandTilde(cfg.Logging.File)
	cfg.Widget.SessionFile = expandTilde(cfg.Widget.SessionFile)
}

// setupViper configures Viper with defaults and environment bindings.
func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "chatline"))
	}
	if homeDir, _ := os.UserHomeDir(); homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "chatline"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)

	// Unmarshal only sees nested env vars that are explicitly bound.
	bindEnvVars(v)

	v.AutomaticEnv()
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	// Widget
	v.SetDefault("widget.title", cfg.Widget.Title)
	v.SetDefault("widget.subtitle", cfg.Widget.Subtitle)
	v.SetDefault("widget.sender_placeholder", cfg.Widget.SenderPlaceholder)
	v.SetDefault("widget.show_timestamp", cfg.Widget.ShowTimestamp)
	v.SetDefault("widget.open_on_start", cfg.Widget.OpenOnStart)
	v.SetDefault("widget.response_delay", cfg.Widget.ResponseDelay)
	v.SetDefault("widget.session_file", cfg.Widget.SessionFile)

	// Pagination
	v.SetDefault("pagination.load_timeout", cfg.Pagination.LoadTimeout)
	v.SetDefault("pagination.page_size", cfg.Pagination.PageSize)

	// History
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.seed_count", cfg.History.SeedCount)

	// Logging
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.enable_caller", cfg.Logging.EnableCaller)

	// Metrics
	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
}

// loadConfigFile attempts to load the configuration file. A missing file
// found by search is not an error.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && l.configFile == "" {
			return nil
		}
		return err
	}

	return nil
}

// ConfigFileUsed returns the config file that was loaded.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set sets a Viper value by key. Set values win over every other source,
// which is how CLI flags are applied.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// bindEnvVars binds CHATLINE_* environment variables for every config key.
func bindEnvVars(v *viper.Viper) {
	envBindings := []string{
		// Widget
		"widget.title",
		"widget.subtitle",
		"widget.sender_placeholder",
		"widget.show_timestamp",
		"widget.open_on_start",
		"widget.response_delay",
		"widget.session_file",
		// Pagination
		"pagination.load_timeout",
		"pagination.page_size",
		// History
		"history.path",
		"history.seed_count",
		// Logging
		"logging.level",
		"logging.format",
		"logging.file",
		"logging.enable_caller",
		// Metrics
		"metrics.addr",
	}

	for _, key := range envBindings {
		// widget.title -> CHATLINE_WIDGET_TITLE
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
}
