package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolateConfigEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 20, cfg.Pagination.PageSize)
	require.Equal(t, 5*time.Second, cfg.Pagination.LoadTimeout)
	require.Equal(t, ":memory:", cfg.History.Path)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pagination.PageSize = 0
	cfg.Pagination.LoadTimeout = time.Millisecond
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	require.True(t, strings.Contains(msg, "pagination.page_size"))
	require.True(t, strings.Contains(msg, "pagination.load_timeout"))
	require.True(t, strings.Contains(msg, "logging.format"))
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := isolateConfigEnv(t)
	path := filepath.Join(dir, "chatline", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
widget:
  title: Support
  open_on_start: false
pagination:
  page_size: 5
  load_timeout: 2s
history:
  path: ~/history.db
`), 0644))
	t.Setenv("CHATLINE_PAGINATION_PAGE_SIZE", "8")
	t.Setenv("CHATLINE_LOGGING_LEVEL", "debug")

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, path, loader.ConfigFileUsed())

	require.Equal(t, "Support", cfg.Widget.Title)
	require.False(t, cfg.Widget.OpenOnStart)
	require.Equal(t, "Ask us anything", cfg.Widget.Subtitle)
	require.Equal(t, 8, cfg.Pagination.PageSize)
	require.Equal(t, 2*time.Second, cfg.Pagination.LoadTimeout)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, filepath.Join(dir, "history.db"), cfg.History.Path)
}

func TestLoaderSetWinsOverEnv(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CHATLINE_HISTORY_SEED_COUNT", "10")

	loader := NewLoader()
	loader.Set("history.seed_count", 3)
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.History.SeedCount)
}

func TestLoadFromMissingExplicitFileFails(t *testing.T) {
	dir := isolateConfigEnv(t)
	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(dir, "nope.yaml"))
	_, err := loader.Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CHATLINE_PAGINATION_PAGE_SIZE", "0")

	_, err := NewLoader().Load()
	require.ErrorContains(t, err, "config validation failed")
}
