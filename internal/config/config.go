// Package config manages YAML-based configuration, environment overrides, and
// multi-folder settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/CageChen/docforge/internal/source"
	"github.com/CageChen/docforge/internal/style"
)

// ErrConfigNotFound is returned when an explicitly named config file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables that override file values.
const (
	EnvStyle  = "DOCFORGE_STYLE"
	EnvPort   = "DOCFORGE_PORT"
	EnvAccent = "DOCFORGE_ACCENT"
)

// LocalConfigFile is looked up in the working directory when no global config exists.
const LocalConfigFile = "docforge.yaml"

// Folder represents a document folder with an alias for display
type Folder struct {
	Path    string   `yaml:"path" json:"path"`
	Alias   string   `yaml:"alias" json:"alias"`
	GitRef  string   `yaml:"git_ref,omitempty" json:"git_ref,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// Config holds all configuration options for docforge
type Config struct {
	Folders []Folder `yaml:"folders,omitempty" json:"folders"`

	Port            int      `yaml:"port" json:"port"`
	Style           string   `yaml:"style" json:"style"`
	Accent          string   `yaml:"accent,omitempty" json:"accent,omitempty"`
	Watch           bool     `yaml:"watch" json:"watch"`
	Open            bool     `yaml:"open" json:"open"`
	Extensions      []string `yaml:"extensions" json:"extensions"`
	Exclude         []string `yaml:"exclude" json:"exclude"`
	ServerHighlight bool     `yaml:"server_highlight" json:"server_highlight"`
	OutDir          string   `yaml:"out_dir,omitempty" json:"out_dir,omitempty"`

	// Internal: path to config file for saving
	configPath string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:       8080,
		Style:      style.Editorial.String(),
		Watch:      true,
		Open:       false,
		Extensions: []string{".md", ".markdown"},
		Exclude:    []string{"node_modules", ".git", ".svn"},
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/docforge"
	}
	return filepath.Join(home, ".config", "docforge")
}

// GetConfigPath returns the full path to the global config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load reads configuration from path, or from the global then local config
// file when path is empty, and applies .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cfgPath := path
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgPath)
		}
	} else if _, err := os.Stat(GetConfigPath()); err == nil {
		cfgPath = GetConfigPath()
	} else if _, err := os.Stat(LocalConfigFile); err == nil {
		cfgPath = LocalConfigFile
	}

	if cfgPath != "" {
		if err := cfg.loadFromFile(cfgPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", cfgPath, err)
		}
		cfg.configPath = cfgPath
	} else {
		cfg.configPath = GetConfigPath()
	}

	// A missing .env is not an error.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.resolveFolders()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStyle); v != "" {
		c.Style = v
	}
	if v := os.Getenv(EnvAccent); v != "" {
		c.Accent = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		c.Port = port
	}
	return nil
}

// resolveFolders makes folder paths absolute and defaults aliases to the
// directory name.
func (c *Config) resolveFolders() {
	for i := range c.Folders {
		absPath, err := filepath.Abs(c.Folders[i].Path)
		if err == nil {
			c.Folders[i].Path = absPath
		}
		if c.Folders[i].Alias == "" {
			c.Folders[i].Alias = defaultAlias(c.Folders[i].Path, c.Folders[i].GitRef)
		}
	}
}

func defaultAlias(path, gitRef string) string {
	alias := filepath.Base(path)
	if gitRef != "" {
		alias = alias + " (" + gitRef + ")"
	}
	return alias
}

// Validate checks the style name, accent and port.
func (c *Config) Validate() error {
	if _, err := style.Lookup(c.Style, c.Accent); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// SetConfigFilePath changes where Save writes.
func (c *Config) SetConfigFilePath(path string) {
	c.configPath = path
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}

// AddFolder adds a new folder with the given path, alias, git ref and excludes
func (c *Config) AddFolder(path, alias, gitRef string, exclude []string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for _, f := range c.Folders {
		if f.Path == absPath && f.GitRef == gitRef {
			return nil // Already exists
		}
	}

	if alias == "" {
		alias = defaultAlias(absPath, gitRef)
	}

	c.Folders = append(c.Folders, Folder{
		Path:    absPath,
		Alias:   alias,
		GitRef:  gitRef,
		Exclude: exclude,
	})

	return nil
}

// Filter returns the document filter for a folder: global extensions plus
// global and folder-level excludes.
func (c *Config) Filter(f Folder) source.Filter {
	exclude := make([]string, 0, len(c.Exclude)+len(f.Exclude))
	exclude = append(exclude, c.Exclude...)
	exclude = append(exclude, f.Exclude...)
	return source.Filter{Extensions: c.Extensions, Exclude: exclude}
}

// Source opens the folder as a document source.
func (c *Config) Source(f Folder) source.Source {
	return source.New(f.Path, f.GitRef, c.Filter(f))
}

// IsMarkdownFile checks if a file has a markdown extension
func (c *Config) IsMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
