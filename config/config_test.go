package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv makes sure the caller's environment does not leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{"MMCIF_RESTORE_CATEGORIES", "MMCIF_RESTORE_LOG_LEVEL",
		"MMCIF_RESTORE_LOG_FILE", "MMCIF_RESTORE_FETCH_SITE", "MMCIF_RESTORE_FETCH_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.Restore.Categories)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Empty(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	cfg.Fetch.TimeoutSecs = 0
	w := Validate(cfg)
	require.Len(t, w, 2)
	assert.Contains(t, w[0], `"loud"`)
	assert.Contains(t, w[1], "timeout_secs")

	cfg = DefaultConfig()
	cfg.Log.Level = "DEBUG"
	assert.Empty(t, Validate(cfg))
}

const sample = `
[restore]
categories = ["_entity.", "_struct_conn."]

[log]
level = "debug"
file = "restore.log"
max_backups = 1

[fetch]
site = 2
`

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"_entity.", "_struct_conn."}, cfg.Restore.Categories)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "restore.log", cfg.Log.File)
	assert.Equal(t, 1, cfg.Log.MaxBackups)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "default kept")
	assert.Equal(t, 2, cfg.Fetch.Site)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nothere.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log\nlevel = 1"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadDefaultLocation(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "no file anywhere")

	home := filepath.Join(dir, ".config", "mmcif_restore")
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte("[log]\nlevel = \"warn\"\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	require.NoError(t, os.WriteFile(".mmcif_restore.toml", []byte("[log]\nlevel = \"error\"\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level, "working directory comes first")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MMCIF_RESTORE_CATEGORIES", "_entity, ,_struct_asym.")
	t.Setenv("MMCIF_RESTORE_LOG_LEVEL", "debug")
	t.Setenv("MMCIF_RESTORE_LOG_FILE", "stdout")
	t.Setenv("MMCIF_RESTORE_FETCH_SITE", "1")
	t.Setenv("MMCIF_RESTORE_FETCH_TIMEOUT", "not a number")
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"_entity", "_struct_asym."}, cfg.Restore.Categories)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.File)
	assert.Equal(t, 1, cfg.Fetch.Site)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,b ,"))
}
