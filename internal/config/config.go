// Package config resolves console configuration from, in order of
// precedence: environment variables, an optional .env file in the
// working directory, ~/.steeple/config.yaml, and built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/steeplefin/steeple/internal/errors"
)

// DefaultAPIBaseURL is used when nothing else specifies the API.
const DefaultAPIBaseURL = "http://localhost:8000"

// Config holds console settings.
type Config struct {
	// APIBaseURL is the base URL of the Steeple platform API.
	APIBaseURL string `yaml:"api_base_url"`

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL: DefaultAPIBaseURL,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// Load resolves the effective configuration. dir is the steeple home
// directory (usually ~/.steeple); a missing config file is not an
// error, an unparseable one is.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.NewConfigInvalidError(path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, errors.Wrap(errors.ErrCodeConfigNotFound, "reading config file", err)
	}

	// A .env in the working directory fills process env without
	// overriding variables set by the caller.
	_ = godotenv.Load()

	if url := os.Getenv("STEEPLE_API_URL"); url != "" {
		cfg.APIBaseURL = url
	}
	if level := os.Getenv("STEEPLE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("STEEPLE_LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	return cfg, nil
}
