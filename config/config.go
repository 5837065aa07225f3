package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the nlon tool.
type Config struct {
	Features FeaturesConfig `yaml:"features"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FeaturesConfig holds feature generation configuration.
type FeaturesConfig struct {
	Tokenizer string `yaml:"tokenizer"` // "whitespace" or "word"
	Stopwords string `yaml:"stopwords"` // Path to a stopword list, one word per line
}

// InputConfig describes where datasets come from and how they are parsed.
type InputConfig struct {
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	TextColumn  string   `yaml:"text_column"`
	LabelColumn string   `yaml:"label_column"` // Optional, empty disables labels
	NullValues  []string `yaml:"null_values"`
	Encoding    string   `yaml:"encoding"` // "utf-8", "latin1", "windows-1252"
	Delimiter   string   `yaml:"delimiter"`
}

// OutputConfig holds feature table output configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "csv", "json", "table", "sqlite"
	Path   string `yaml:"path"`   // Empty writes to stdout (not valid for sqlite)
}

// StoreConfig holds run store configuration.
type StoreConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Features: FeaturesConfig{
			Tokenizer: "whitespace",
		},
		Input: InputConfig{
			Includes:    []string{"**/*.csv"},
			Excludes:    []string{"**/.nlon/**", "**/.git/**", "**/node_modules/**", "**/vendor/**"},
			TextColumn:  "text",
			LabelColumn: "class",
			NullValues:  []string{"NA"},
			Encoding:    "utf-8",
			Delimiter:   ",",
		},
		Output: OutputConfig{
			Format: "csv",
		},
		Store: StoreConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for nlon.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "nlon.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".nlon", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RunsDBPath returns the path to the run store database.
func RunsDBPath(dir string) string {
	return filepath.Join(dir, ".nlon", "runs.db")
}

// EnsureDataDir ensures the .nlon directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".nlon"), 0755)
}
