package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FUNNELKIT_DB_PATH.
	EnvPrefix = "FUNNELKIT_"
	// LocalConfigPath is the project-level config file, relative to the working directory.
	LocalConfigPath = ".funnelkit/config.json"
)

// Configuration represents the funnelkit CLI configuration
type Configuration struct {
	DBPath                string `koanf:"db_path" validate:"required"`
	LogLevel              string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat             string `koanf:"log_format" validate:"oneof=console json"`
	OutputFormat          string `koanf:"output_format" validate:"oneof=auto text json"`
	DefaultRolloutPercent int    `koanf:"default_rollout_percent" validate:"min=0,max=100"`
}

// GlobalConfigPath returns ~/.funnelkit/config.json.
func GlobalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".funnelkit", "config.json"), nil
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath, err := GlobalConfigPath(); err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Environment variables have the highest priority
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.DBPath = expandHomePath(cfg.DBPath)

	return &cfg, nil
}

// Values returns the configuration as key/value pairs keyed like KnownKeys.
func (c *Configuration) Values() map[string]any {
	return map[string]any{
		"db_path":                 c.DBPath,
		"log_level":               c.LogLevel,
		"log_format":              c.LogFormat,
		"output_format":           c.OutputFormat,
		"default_rollout_percent": c.DefaultRolloutPercent,
	}
}

// envTransform converts environment variable names to config keys
// Example: FUNNELKIT_DB_PATH -> db_path
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
