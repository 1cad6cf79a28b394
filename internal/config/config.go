package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "keywrap"

type Config struct {
	Verbose   bool   `toml:"verbose"`
	Debug     bool   `toml:"debug"`
	StorePath string `toml:"store_path"`
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(configDir, appName, "config.toml"), nil
}

// DefaultStorePath returns the default envelope store path.
func DefaultStorePath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, appName, "store.toml"), nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	storePath, err := DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return &Config{StorePath: storePath}, nil
}

// Load reads the configuration at path, falling back to defaults for a
// missing file or an empty store_path.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if cfg.StorePath == "" {
		if cfg.StorePath, err = DefaultStorePath(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}
