package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrRepoNotSet   = errors.New("image repository path is not configured")
	ErrRepoNotFound = errors.New("image repository path does not exist")
)

// Config represents the application configuration
type Config struct {
	Image ImageConfig `yaml:"image"`
	HTTP  HTTPConfig  `yaml:"http"`
}

// ImageConfig points at the image repository whose build file gets pinned.
// The build file name itself lives in the repository's isopin.toml.
type ImageConfig struct {
	Repo string `yaml:"repo"` // path to the image repository (empty: current directory)
}

// HTTPConfig holds fetch settings
type HTTPConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request bound (default: 3)
	UserAgent      string `yaml:"user_agent,omitempty"`
}

// Default returns the configuration used when no config file exists yet
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 3,
		},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/isopin/config.yaml (XDG standard - priority)
// 2. ~/.isopin/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Check XDG_CONFIG_HOME first, fallback to ~/.config
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "isopin", "config.yaml"),
		filepath.Join(home, ".isopin", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	// No config exists, return default (XDG) path for creation
	return paths[0], nil
}

// Load reads configuration from the first available config file
// Priority: ~/.config/isopin/config.yaml > ~/.isopin/config.yaml
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Create default config
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RepoPath returns the validated image repository path
func (c *Config) RepoPath() (string, error) {
	if c.Image.Repo == "" {
		return "", ErrRepoNotSet
	}

	// Expand home directory if needed
	path := c.Image.Repo
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrRepoNotFound
		}
		return "", err
	}
	if !info.IsDir() {
		return "", ErrRepoNotFound
	}

	return path, nil
}

// Timeout returns the per-request fetch bound
func (c *Config) Timeout() time.Duration {
	if c.HTTP.TimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
