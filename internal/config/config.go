package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runnerbench/runnerbench/internal/manifest"
)

// LocalConfigName is the per-project config file searched for in the
// working directory and its ancestors.
const LocalConfigName = ".runnerbench.toml"

// Config holds all application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Generate GenerateConfig `toml:"generate"`
	Suite    []SuiteEntry   `toml:"suite"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	OutputDir    string `toml:"output_dir"`
	DatabasePath string `toml:"database_path"`
}

// GenerateConfig holds generation defaults
type GenerateConfig struct {
	DefaultCount int `toml:"default_count"`
}

// SuiteEntry describes one manifest in the configured benchmark suite
type SuiteEntry struct {
	Format       string `toml:"format"`
	Count        int    `toml:"count"`
	Path         string `toml:"path"`
	NameTemplate string `toml:"name_template"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			OutputDir:    ".",
			DatabasePath: filepath.Join(home, ".runnerbench", "history.db"),
		},
		Generate: GenerateConfig{
			DefaultCount: 1000,
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Expand paths
	cfg.General.OutputDir = ExpandPath(cfg.General.OutputDir)
	cfg.General.DatabasePath = ExpandPath(cfg.General.DatabasePath)

	return cfg, nil
}

// LoadWithLocalFallback loads the explicit path if given, otherwise a
// local .runnerbench.toml found in the working directory or an
// ancestor, otherwise the default config location.
func LoadWithLocalFallback(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if local := FindLocalConfig(); local != "" {
		return Load(local)
	}
	return Load(DefaultConfigPath())
}

// FindLocalConfig walks up from the working directory looking for a
// local config file. Returns "" if none is found.
func FindLocalConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, LocalConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// SuiteRequests converts the configured suite into generation requests.
// An empty suite falls back to one manifest per format at the default
// count. Entry counts of zero inherit the default count; relative paths
// resolve under the output directory.
func (c *Config) SuiteRequests() ([]manifest.Request, error) {
	entries := c.Suite
	if len(entries) == 0 {
		for _, f := range manifest.Formats() {
			entries = append(entries, SuiteEntry{Format: f.String()})
		}
	}

	reqs := make([]manifest.Request, 0, len(entries))
	for i, entry := range entries {
		format, err := manifest.ParseFormat(entry.Format)
		if err != nil {
			return nil, fmt.Errorf("suite entry %d: %w", i+1, err)
		}

		count := entry.Count
		if count == 0 {
			count = c.Generate.DefaultCount
		}

		reqs = append(reqs, manifest.Request{
			Format:       format,
			Count:        count,
			OutputPath:   c.ResolveOutputPath(format, entry.Path),
			NameTemplate: entry.NameTemplate,
		})
	}
	return reqs, nil
}

// ResolveOutputPath expands a requested output path and resolves
// relative paths under the output directory. An empty path means the
// format's default filename.
func (c *Config) ResolveOutputPath(format manifest.Format, path string) string {
	if path == "" {
		path = format.DefaultFilename()
	}
	path = ExpandPath(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.General.OutputDir, path)
	}
	return path
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "runnerbench", "config.toml")
}
