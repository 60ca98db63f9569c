package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type config struct {
	Port       string `yaml:"port"`
	APIBaseURL string `yaml:"apiBaseURL"`
	LogLevel   string `yaml:"logLevel"`
}

func defaultConfig() config {
	return config{
		Port:       "8080",
		APIBaseURL: "http://localhost:8090",
		LogLevel:   "info",
	}
}

// loadConfig reads the YAML config file, falling back to defaults when no file
// exists. The path comes from STUDYMATE_CONFIG or the user config directory.
func loadConfig() (config, error) {
	cfg := defaultConfig()

	path := os.Getenv("STUDYMATE_CONFIG")
	if path == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return cfg, fmt.Errorf("error getting user config dir: %w", err)
		}
		path = filepath.Join(cfgDir, "studymate", "config.yaml")
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error decoding config file: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = defaultConfig().Port
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultConfig().APIBaseURL
	}
	return cfg, nil
}

func (c config) slogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
