package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file in the repository root.
const FileName = "resale.yaml"

// DefaultMaxInputBytes bounds the size of an invoice text accepted for import.
const DefaultMaxInputBytes = 1 << 20

// Config represents the top-level resale.yaml configuration.
type Config struct {
	Shop   ShopConfig   `yaml:"shop"`
	Import ImportConfig `yaml:"import"`
	Git    GitConfig    `yaml:"git"`
	Log    LogConfig    `yaml:"log"`
}

// ShopConfig identifies the reseller.
type ShopConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig controls invoice import.
type ImportConfig struct {
	MaxInputBytes int64  `yaml:"max_input_bytes"`
	InboxDir      string `yaml:"inbox_dir"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a resale.yaml file from disk. Missing fields take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Import.MaxInputBytes < 0 {
		return nil, fmt.Errorf("parsing config: import.max_input_bytes must not be negative")
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(shopName string) *Config {
	return &Config{
		Shop: ShopConfig{
			Name: shopName,
		},
		Import: ImportConfig{
			MaxInputBytes: DefaultMaxInputBytes,
			InboxDir:      "inbox",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Resale",
			AuthorEmail: "resale@localhost",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
