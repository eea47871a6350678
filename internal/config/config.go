// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Application Application `yaml:"application"`
	Logger      Logger      `yaml:"logger"`
	Storage     Storage     `yaml:"storage"`
	Database    Database    `yaml:"database"`
	ValKey      ValKey      `yaml:"valkey"`
	Generation  Generation  `yaml:"generation"`
}

type Application struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Storage selects where sessions and resume results live.
type Storage struct {
	// Backend is one of "memory", "postgres", or "valkey". Resume results
	// require postgres; with other backends they stay in memory.
	Backend string `yaml:"backend"`
}

type Database struct {
	Name     string    `yaml:"name"`
	Port     string    `yaml:"port"`
	Host     SourceRef `yaml:"host"`
	User     SourceRef `yaml:"user"`
	Password SourceRef `yaml:"password"`
}

type ValKey struct {
	Host     SourceRef `yaml:"host"`
	User     SourceRef `yaml:"user"`
	Password SourceRef `yaml:"password"`
	Prefix   string    `yaml:"prefix"`
}

type Generation struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"baseURL"`
	APIKey      SourceRef     `yaml:"apiKey"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"maxAttempts"`
}

// SourceRef resolves a config value from an inline literal, an environment
// variable, or a file, checked in that order.
type SourceRef struct {
	Value string `yaml:"value"`
	Env   string `yaml:"env"`
	File  string `yaml:"file"`
}

// Load resolves the referenced value. An entirely empty ref resolves to
// the empty string without error.
func (s SourceRef) Load() (string, error) {
	switch {
	case s.Value != "":
		return s.Value, nil
	case s.Env != "":
		val, ok := os.LookupEnv(s.Env)
		if !ok {
			return "", fmt.Errorf("environment variable %s is not set", s.Env)
		}
		return val, nil
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", s.File, err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", nil
	}
}

// LoadConfig reads the YAML config at path and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Application.Name == "" {
		c.Application.Name = "interview-manager"
	}
	if c.Application.Environment == "" {
		c.Application.Environment = "development"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.ValKey.Prefix == "" {
		c.ValKey.Prefix = "interview-manager"
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = "gemini"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gemini-1.5-flash"
	}
	if c.Generation.Timeout == 0 {
		c.Generation.Timeout = 120 * time.Second
	}
	if c.Generation.MaxAttempts == 0 {
		c.Generation.MaxAttempts = 3
	}
}
