package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI's build settings, loadable from a YAML file.
// Command-line flags override file values; file values override
// defaults.
type Config struct {
	// OutDir is the base directory for per-target output directories.
	OutDir string `yaml:"out_dir"`

	// Database is the path to the SQLite result cache.
	Database string `yaml:"database"`
}

// DefaultConfig returns the built-in defaults: everything under
// "out/", cache at "out/mill.db".
func DefaultConfig() *Config {
	return &Config{
		OutDir:   "out",
		Database: filepath.Join("out", "mill.db"),
	}
}

// LoadConfig reads a YAML config file and fills unset fields with
// defaults. An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fileCfg.OutDir != "" {
		cfg.OutDir = fileCfg.OutDir
	}
	if fileCfg.Database != "" {
		cfg.Database = fileCfg.Database
	}
	return cfg, nil
}

// resolveConfig applies the flag > file > default precedence for one
// command invocation.
func resolveConfig(opts *RootOptions, database, outDir string) (*Config, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	if database != "" {
		cfg.Database = database
	}
	if outDir != "" {
		cfg.OutDir = outDir
	}
	return cfg, nil
}

// ensureDatabaseDir creates the cache database's parent directory.
func ensureDatabaseDir(cfg *Config) error {
	dir := filepath.Dir(cfg.Database)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}
