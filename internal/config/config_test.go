package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, Name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.FFmpegPath)
	assert.Equal(t, "", cfg.OutputDir)
	assert.False(t, cfg.ConfirmOverwrite)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
output_dir: /tmp/converted
confirm_overwrite: true
log_level: debug
log_file: /tmp/vidconv.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "/tmp/converted", cfg.OutputDir)
	assert.True(t, cfg.ConfirmOverwrite)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/vidconv.log", cfg.LogFile)
	assert.Equal(t, path, cfg.File)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output_dir: out\n")
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.NotEmpty(t, cfg.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_level: info\n")
	t.Setenv("VIDCONV_LOG_LEVEL", "error")
	t.Setenv("VIDCONV_CONFIRM_OVERWRITE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.ConfirmOverwrite)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_level: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}
