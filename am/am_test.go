package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "github.toml")
	content := `
[github]
command = "ssh buildhost gh"
requests_per_minute = 30

[inspect]
max_lines = 80
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ssh buildhost gh", cfg.GitHub.Command)
	assert.Equal(t, 30, cfg.GitHub.RequestsPerMinute)
	assert.Equal(t, 80, cfg.Inspect.MaxLines)
	// Unset values fall back to defaults
	assert.Equal(t, DefaultContextLines, cfg.Inspect.ContextLines)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gh", cfg.GitHub.Command)
	assert.Equal(t, DefaultMaxLines, cfg.Inspect.MaxLines)
	assert.Equal(t, DefaultContextLines, cfg.Inspect.ContextLines)
	assert.Zero(t, cfg.GitHub.RequestsPerMinute)
}

func TestLoadCaches(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
}
