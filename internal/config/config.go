package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "addrscene.yaml"

// Path strategies for the scene data root.
const (
	StrategyPersistent = "persistent"
	StrategyProject    = "project"
	StrategyStreaming  = "streaming"
)

type Config struct {
	ProjectRoot  string `yaml:"project_root"`
	PathStrategy string `yaml:"path_strategy"`
	// DataRoot overrides the path strategy when set.
	DataRootDir string `yaml:"data_root"`
	Extension   string `yaml:"extension"`
	Catalog     string `yaml:"catalog"`
	ScenesDir   string `yaml:"scenes_dir"`

	// UI Settings
	ColorTheme      string `yaml:"color_theme"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`
	WindowWidth     int    `yaml:"window_width"`
	WindowHeight    int    `yaml:"window_height"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ProjectRoot:     ".",
		PathStrategy:    StrategyPersistent,
		DataRootDir:     "",
		Extension:       "dat",
		Catalog:         "addressables.yaml",
		ScenesDir:       "scenes",
		ColorTheme:      "auto",
		WatchDebounceMS: 300,
		WindowWidth:     1280,
		WindowHeight:    720,
	}
}

// Load reads configuration from the specified file path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.Extension == "" {
		cfg.Extension = "dat"
	}
	if cfg.Catalog == "" {
		cfg.Catalog = "addressables.yaml"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 300
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		cfg.WindowWidth, cfg.WindowHeight = 1280, 720
	}
	if !isValidStrategy(cfg.PathStrategy) {
		return nil, fmt.Errorf("unknown path_strategy %q", cfg.PathStrategy)
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DataRoot resolves the directory scene data files live in.
func (c *Config) DataRoot() (string, error) {
	if c.DataRootDir != "" {
		return c.resolve(c.DataRootDir), nil
	}
	switch c.PathStrategy {
	case StrategyProject:
		return filepath.Join(c.ProjectRoot, "Data"), nil
	case StrategyStreaming:
		return filepath.Join(c.ProjectRoot, "StreamingAssets"), nil
	case StrategyPersistent, "":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve persistent data root: %w", err)
		}
		return filepath.Join(dir, "addrscene"), nil
	}
	return "", fmt.Errorf("unknown path_strategy %q", c.PathStrategy)
}

// CatalogPath is the catalog file, relative paths taken from the project
// root.
func (c *Config) CatalogPath() string {
	return c.resolve(c.Catalog)
}

func (c *Config) ScenePath(name string) string {
	return filepath.Join(c.resolve(c.ScenesDir), name+".json")
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot, path)
}

func isValidStrategy(s string) bool {
	switch s {
	case "", StrategyPersistent, StrategyProject, StrategyStreaming:
		return true
	}
	return false
}
