// Package config handles the backend's own configuration via a TOML file.
// The file lives next to the settings store in the user-data root and is optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	FileName = "backend.toml"

	EnvLogLevel = "ISPEAKER_LOG_LEVEL"
)

// Config holds backend configuration
type Config struct {
	Server ServerConfig `toml:"server"`
	Paths  PathsConfig  `toml:"paths"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `toml:"addr"`
	Dev  bool   `toml:"dev"`
}

// PathsConfig overrides the platform directories.
// Empty values fall back to ISPEAKER_USER_DATA_DIR / ISPEAKER_DOCUMENTS_DIR and then
// the OS defaults.
type PathsConfig struct {
	UserDataDir  string `toml:"user_data_dir"`
	DocumentsDir string `toml:"documents_dir"`
}

// LogConfig holds the stderr log level. The file log level comes from the user's
// log settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":19180"},
		Log:    LogConfig{Level: "info"},
	}
}

// ConfigPath returns the config file path inside userDataDir.
func ConfigPath(userDataDir string) string {
	return filepath.Join(userDataDir, FileName)
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, err := toml.Decode(string(data), &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, err
		}
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.Log.Level = level
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = Default().Server.Addr
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
