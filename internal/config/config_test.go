package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Translate.BatchSize)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, DefaultPrompt, cfg.Translate.Prompt)
	assert.NotEmpty(t, cfg.Translate.ScratchDir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Translate.BatchSize, cfg.Translate.BatchSize)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gemini]
api_key = "file-key"
model = "gemini-test"

[translate]
batch_size = 25
target_language = "French"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, 25, cfg.Translate.BatchSize)
	assert.Equal(t, "French", cfg.Translate.TargetLanguage)
	// Unset fields keep their defaults.
	assert.Equal(t, Default().Gemini.Timeout, cfg.Gemini.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gemini]
api_key = "file-key"
`), 0644))

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SUBTRANS_BATCH_SIZE", "10")
	t.Setenv("SUBTRANS_WATCH_DIRS", "/a, /b")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, 10, cfg.Translate.BatchSize)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Watch.Dirs)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SUBTRANS_BATCH_SIZE", "-5")
	_, err := Load("")
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Gemini.APIKey = "secret"
	cfg.Translate.TargetLanguage = "Japanese"
	cfg.Watch.Dirs = []string{"/subs"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.Gemini.APIKey)
	assert.Equal(t, "Japanese", loaded.Translate.TargetLanguage)
	assert.Equal(t, []string{"/subs"}, loaded.Watch.Dirs)
}
