package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxRecentFiles bounds the recent-files list.
const MaxRecentFiles = 10

type Config struct {
	Theme          string    `yaml:"theme"`
	LogLevel       string    `yaml:"log_level"`
	PluginsEnabled bool      `yaml:"plugins_enabled"`
	RecentFiles    []string  `yaml:"recent_files"`
	Database       Database  `yaml:"database"`
	Analytics      Analytics `yaml:"analytics"`
}

type Database struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type Analytics struct {
	DisplayCap int    `yaml:"display_cap"`
	ChunkSize  int    `yaml:"chunk_size"`
	Encoding   string `yaml:"encoding"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Theme:          "light",
		LogLevel:       "INFO",
		PluginsEnabled: true,
		RecentFiles:    []string{},
		Database: Database{
			Type: "sqlite",
			Path: "",
		},
		Analytics: Analytics{
			DisplayCap: 1000,
			ChunkSize:  0,
			Encoding:   "utf-8",
		},
	}
}

// DefaultDir is the per-user state directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".convdesk"), nil
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARNING", "ERROR":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Analytics.DisplayCap < 0 {
		return fmt.Errorf("analytics.display_cap must not be negative")
	}
	if c.Analytics.ChunkSize < 0 {
		return fmt.Errorf("analytics.chunk_size must not be negative")
	}
	return nil
}

// AddRecentFile puts path at the front of the recent-files list,
// dropping duplicates and anything beyond MaxRecentFiles.
func (c *Config) AddRecentFile(path string) {
	files := make([]string, 0, len(c.RecentFiles)+1)
	files = append(files, path)
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	c.RecentFiles = files
}
