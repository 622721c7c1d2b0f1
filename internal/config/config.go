// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFileName = "vaxsched_config.yaml"

// Config represents the application configuration
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// LogsDir is where log files are written. Defaults to "logs".
	LogsDir string `yaml:"logsDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from vaxsched_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory. A .env file in the current directory is loaded
// first, and DATABASE_URL in the environment overrides the file value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath, err := findConfigFile()
	if err != nil {
		// No file is fine as long as the environment supplies the DSN
		if os.Getenv("DATABASE_URL") == "" {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		cfg := &Config{DatabaseURL: os.Getenv("DATABASE_URL")}
		applyDefaults(cfg)
		return cfg, nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogsDir == "" {
		cfg.LogsDir = "logs"
	}
}

// findConfigFile searches for vaxsched_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
