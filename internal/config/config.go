// Package config loads the medi configuration file. It sits at the
// boundary of the core: the storage layer only consumes the resolved
// directory paths.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// EnvDBPath overrides the data directory when set. Tests lean on this
// to point medi at a temporary directory.
const EnvDBPath = "MEDI_DB_PATH"

// Config is the user-editable configuration.
type Config struct {
	// DBPath is the data directory holding the primary store and the
	// search index. Empty means the platform default.
	DBPath string `yaml:"db_path"`

	// ExportDir is the default destination for note exports.
	ExportDir string `yaml:"export_dir"`
}

// Default returns the configuration medi writes on first run.
func Default() Config {
	return Config{
		DBPath:    defaultDataDir(),
		ExportDir: defaultExportDir(),
	}
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".medi", "medi_db")
	}
	return filepath.Join(".medi", "medi_db")
}

func defaultExportDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, "medi_exports")
	}
	return "medi_exports"
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "medi", "config.yaml"), nil
}

// Load reads the config file, creating it with defaults on first run.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if werr := write(path, cfg); werr != nil {
			return cfg, werr
		}
		return cfg, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// write persists the config atomically so a crash mid-write never
// leaves a truncated file behind.
func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DataDir resolves the data directory: the MEDI_DB_PATH environment
// variable wins, then the config file, then the platform default.
func (c Config) DataDir() string {
	if dir := os.Getenv(EnvDBPath); dir != "" {
		return dir
	}
	if c.DBPath != "" {
		return c.DBPath
	}
	return defaultDataDir()
}
