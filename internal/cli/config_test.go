package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, filepath.Join("out", "mill.db"), cfg.Database)
}

func TestLoadConfig_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "out_dir: build-out\ndatabase: cache/results.db\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "build-out", cfg.OutDir)
	assert.Equal(t, "cache/results.db", cfg.Database)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "out_dir: build-out\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "build-out", cfg.OutDir)
	assert.Equal(t, filepath.Join("out", "mill.db"), cfg.Database)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "out_dir: [unterminated\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestResolveConfig_FlagBeatsFileBeatsDefault(t *testing.T) {
	path := writeConfig(t, "out_dir: from-file\ndatabase: from-file.db\n")
	opts := &RootOptions{Config: path}

	// No flags: file wins over defaults.
	cfg, err := resolveConfig(opts, "", "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.OutDir)
	assert.Equal(t, "from-file.db", cfg.Database)

	// Flags win over the file.
	cfg, err = resolveConfig(opts, "from-flag.db", "from-flag")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutDir)
	assert.Equal(t, "from-flag.db", cfg.Database)
}

func TestEnsureDatabaseDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Database: filepath.Join(dir, "nested", "cache", "mill.db")}

	require.NoError(t, ensureDatabaseDir(cfg))

	info, err := os.Stat(filepath.Join(dir, "nested", "cache"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Bare filename needs no directory.
	require.NoError(t, ensureDatabaseDir(&Config{Database: "mill.db"}))
}
