package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, options{host: "0.0.0.0", port: 5000, execTimeout: 60 * time.Second}, opts)
}

func TestParseOptionsEnvAndFlags(t *testing.T) {
	getenv := env(map[string]string{
		"NETEMLAB_HOST":        "127.0.0.1",
		"NETEMLAB_PORT":        "8080",
		"NETEMLAB_PRESETS_DIR": "/var/lib/netemlab",
	})

	opts, err := parseOptions([]string{"-port", "9000", "-exec-timeout", "5s"}, getenv)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", opts.host)
	assert.Equal(t, 9000, opts.port, "flag wins over env")
	assert.Equal(t, "/var/lib/netemlab", opts.presetDir)
	assert.Equal(t, 5*time.Second, opts.execTimeout)
}

func TestParseOptionsErrors(t *testing.T) {
	_, err := parseOptions(nil, env(map[string]string{"NETEMLAB_PORT": "http"}))
	assert.Error(t, err)

	_, err = parseOptions([]string{"-port", "70000"}, env(nil))
	assert.Error(t, err)

	_, err = parseOptions([]string{"-exec-timeout", "0s"}, env(nil))
	assert.Error(t, err)
}

func TestResolvePresetDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolvePresetDir(filepath.Join(dir, "new"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new"), got)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = resolvePresetDir(file)
	assert.Error(t, err)

	got, err = resolvePresetDir("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "presets", filepath.Base(got))
}
