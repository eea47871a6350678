// Package cmdutils carries the setup shared by all subcommands: locating
// the config file and initialising the default logger.
package cmdutils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/prepdeck/interview-manager/internal/config"
)

// configSearchPaths are tried in order when no explicit path is given.
var configSearchPaths = []string{
	"/etc/interview-manager/config.yaml",
	"$HOME/.interview-manager/config.yaml",
	"config.yaml",
}

// LoadConfig loads the configuration from path, or from the first search
// path that exists when path is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	for _, candidate := range configSearchPaths {
		candidate = os.ExpandEnv(candidate)
		if _, err := os.Stat(candidate); err == nil {
			return config.LoadConfig(candidate)
		}
	}

	return nil, fmt.Errorf("no config file found in %s", strings.Join(configSearchPaths, ", "))
}

// Setup loads the config and installs the default logger.
func Setup(configPath string) (*config.Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := InitLogger(cfg); err != nil {
		return nil, oops.In("main").Wrapf(err, "Failed to initialise the logger")
	}

	return cfg, nil
}

// InitLogger installs a slog default logger per the configuration, wrapped
// in a slog-context handler so context attributes propagate.
func InitLogger(cfg *config.Config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logger.Level)); err != nil {
		return fmt.Errorf("parsing log level %q: %w", cfg.Logger.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Logger.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format %q", cfg.Logger.Format)
	}

	logger := slog.New(slogctx.NewHandler(handler, nil)).With(
		"application", cfg.Application.Name,
		"environment", cfg.Application.Environment,
	)
	slog.SetDefault(logger)

	return nil
}

// ReadInputFile reads a user-supplied file, expanding a leading ~.
func ReadInputFile(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return string(data), nil
}
