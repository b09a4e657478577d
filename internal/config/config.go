// Package config loads taimio-report settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/taimio-report/internal/taimio"
)

const (
	appName = "taimio-report"

	// DefaultProjectsFile is the mapping file name used when none is configured.
	DefaultProjectsFile = "projects"
)

// Config holds runtime settings.
type Config struct {
	APIRoot          string        `yaml:"api_root"`
	TokenFile        string        `yaml:"token_file"`
	ProjectsFile     string        `yaml:"projects_file"`
	ClientSideFilter bool          `yaml:"client_side_filter"`
	Timeout          time.Duration `yaml:"timeout"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the config file location used when --config is not given.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yml")
}

// Default returns the built-in settings.
func Default() Config {
	cfg := Config{
		APIRoot:      taimio.DefaultAPIRoot,
		ProjectsFile: DefaultProjectsFile,
		Timeout:      taimio.DefaultTimeout,
	}
	if dir, err := Dir(); err == nil {
		cfg.TokenFile = filepath.Join(dir, "token")
	}
	return cfg
}

// Load returns the defaults overlaid with the YAML file at path (if it exists)
// and then with TAIMIO_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("could not parse YAML from '%s': %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return Config{}, fmt.Errorf("could not read config file '%s': %w", path, err)
		}
	}

	cfg.APIRoot = getEnv("TAIMIO_API_ROOT", cfg.APIRoot)
	cfg.TokenFile = getEnv("TAIMIO_TOKEN_FILE", cfg.TokenFile)
	cfg.ProjectsFile = getEnv("TAIMIO_PROJECTS_FILE", cfg.ProjectsFile)
	cfg.ClientSideFilter = getBoolEnv("TAIMIO_CLIENT_SIDE_FILTER", cfg.ClientSideFilter)
	cfg.Timeout = getDurationEnv("TAIMIO_TIMEOUT", cfg.Timeout)

	if cfg.TokenFile == "" {
		return Config{}, fmt.Errorf("no token file configured and no home directory to default to")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
