// Package config handles chatline configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the root configuration structure for chatline.
type Config struct {
	// Widget settings
	Widget WidgetConfig `yaml:"widget" mapstructure:"widget"`

	// Pagination settings
	Pagination PaginationConfig `yaml:"pagination" mapstructure:"pagination"`

	// History archive settings
	History HistoryConfig `yaml:"history" mapstructure:"history"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Metrics settings
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// WidgetConfig contains presentation settings for the chat widget.
type WidgetConfig struct {
	// Title is shown in the widget header.
	Title string `yaml:"title" mapstructure:"title"`

	// Subtitle is shown under the title.
	Subtitle string `yaml:"subtitle" mapstructure:"subtitle"`

	// SenderPlaceholder is the compose input placeholder.
	SenderPlaceholder string `yaml:"sender_placeholder" mapstructure:"sender_placeholder"`

	// ShowTimestamp renders burst timestamps.
	ShowTimestamp bool `yaml:"show_timestamp" mapstructure:"show_timestamp"`

	// OpenOnStart opens the widget when the program starts.
	OpenOnStart bool `yaml:"open_on_start" mapstructure:"open_on_start"`

	// ResponseDelay is how long the demo host waits before answering.
	ResponseDelay time.Duration `yaml:"response_delay" mapstructure:"response_delay"`

	// SessionFile stores open state and badge between runs. Empty disables it.
	SessionFile string `yaml:"session_file" mapstructure:"session_file"`
}

// PaginationConfig contains older-history settings.
type PaginationConfig struct {
	// LoadTimeout bounds one older-history request.
	LoadTimeout time.Duration `yaml:"load_timeout" mapstructure:"load_timeout"`

	// PageSize is how many archived messages one request prepends.
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// HistoryConfig contains archive settings.
type HistoryConfig struct {
	// Path is the SQLite archive path, or ":memory:".
	Path string `yaml:"path" mapstructure:"path"`

	// SeedCount is how many demo messages to archive on start.
	SeedCount int `yaml:"seed_count" mapstructure:"seed_count"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error, disabled).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. The terminal belongs to the widget,
	// so without a file logs are discarded.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// MetricsConfig contains Prometheus exposition settings.
type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. "127.0.0.1:9464".
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Widget: WidgetConfig{
			Title:             "Welcome",
			Subtitle:          "Ask us anything",
			SenderPlaceholder: "Type a message...",
			ShowTimestamp:     true,
			OpenOnStart:       true,
			ResponseDelay:     800 * time.Millisecond,
		},
		Pagination: PaginationConfig{
			LoadTimeout: 5 * time.Second,
			PageSize:    20,
		},
		History: HistoryConfig{
			Path:      ":memory:",
			SeedCount: 120,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
	}
}

// Validate checks if the configuration is valid. All problems are reported.
func (c *Config) Validate() error {
	var errs []error

	if c.Pagination.LoadTimeout < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("pagination.load_timeout must be at least 10ms"))
	}
	if c.Pagination.PageSize < 1 {
		errs = append(errs, fmt.Errorf("pagination.page_size must be at least 1"))
	}
	if c.History.SeedCount < 0 {
		errs = append(errs, fmt.Errorf("history.seed_count must not be negative"))
	}
	if strings.TrimSpace(c.History.Path) == "" {
		errs = append(errs, fmt.Errorf("history.path is required"))
	}
	if c.Widget.ResponseDelay < 0 {
		errs = append(errs, fmt.Errorf("widget.response_delay must not be negative"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, disabled"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of console, json"))
	}

	return errors.Join(errs...)
}

// ConfigDir returns the directory chatline keeps its files in.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatline")
}
