package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 40, cfg.Timeline.ColumnWidth)
	assert.Equal(t, PolicyLinear, cfg.Timeline.ProgressPolicy)
	assert.False(t, cfg.Logging.Enabled)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: file
  path: /tmp/site.json
timeline:
  column_width: 20
logging:
  enabled: true
  level: debug
`), 0o644))
	t.Setenv("SITETRACK_TIMELINE_MAX_WIDTH", "120")

	cfg, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/tmp/site.json", cfg.StorePath())
	assert.Equal(t, 20, cfg.Timeline.ColumnWidth)
	assert.Equal(t, 120, cfg.Timeline.MaxWidth)
	assert.True(t, cfg.Logging.Enabled)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SITETRACK_STORE_BACKEND", "postgres")
	t.Setenv("SITETRACK_LOGGING_LEVEL", "loud")

	_, err := Load(NewViper(""))
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "store.backend", verrs[0].Field)
	assert.Equal(t, "logging.level", verrs[1].Field)
	assert.Contains(t, err.Error(), "2 config errors")
}

func TestValidate_MilestoneSteps(t *testing.T) {
	cfg := Default()
	cfg.Timeline.ProgressPolicy = PolicyMilestone
	cfg.Timeline.MilestoneSteps = 0

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "timeline.milestone_steps", errs[0].Field)
}

func TestStorePath_DefaultsByBackend(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg := Default()
	assert.Equal(t, filepath.Join(xdg, "sitetrack", "sitetrack.db"), cfg.StorePath())
	cfg.Store.Backend = BackendFile
	assert.Equal(t, filepath.Join(xdg, "sitetrack", "state.json"), cfg.StorePath())
}
