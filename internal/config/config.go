package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/kyleking/sql-advisor/internal/errors"
)

// Config represents the application configuration
type Config struct {
	LLM      LLMConfig      `json:"llm"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
}

// LLMConfig represents the generative backend configuration. An empty
// provider disables the AI generation path entirely; the rule-based
// fallback then handles every request.
type LLMConfig struct {
	Provider string `json:"provider" env:"LLM_PROVIDER" envDefault:""`
	Model    string `json:"model"    env:"LLM_MODEL"    envDefault:"gpt-4o-mini"`
	APIKey   string `json:"api_key"  env:"LLM_API_KEY"  envDefault:""`
	BaseURL  string `json:"base_url" env:"LLM_BASE_URL" envDefault:""`
}

// DatabaseConfig represents the analysis history database configuration
type DatabaseConfig struct {
	Path    string `json:"path"    env:"DB_PATH"    envDefault:"~/.config/sql-advisor/history.db"`
	Enabled bool   `json:"enabled" env:"DB_ENABLED" envDefault:"true"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"`                                // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"`                                // text, json
	Output string `json:"output" env:"LOG_OUTPUT" envDefault:"stderr"`                              // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"   envDefault:"~/.config/sql-advisor/logs/app.log"` // log file path when output is file
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	return LoadConfigWithOverrides(nil)
}

// LoadConfigWithOverrides loads configuration with optional command-line flag
// overrides. Precedence, lowest to highest: built-in defaults, the config
// file, environment variables that are actually set, flags.
func LoadConfigWithOverrides(flagOverrides map[string]interface{}) (*Config, error) {
	config := &Config{}

	// Built-in defaults first. Parsing against an empty environment applies
	// only the envDefault tags.
	if err := env.ParseWithOptions(config, env.Options{
		Prefix:      "SQL_ADVISOR_",
		Environment: map[string]string{},
	}); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}

	// Load from config file if it exists
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadConfigFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Environment variables override the file, but only when set; parsing
	// directly into config would stamp envDefault over file values.
	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	// Apply command-line flag overrides
	if flagOverrides != nil {
		applyFlagOverrides(config, flagOverrides)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides copies into config the values of fields whose
// environment variable is present, leaving every other field untouched.
func applyEnvOverrides(config *Config) error {
	fromEnv := &Config{}
	if err := env.ParseWithOptions(fromEnv, env.Options{
		Prefix: "SQL_ADVISOR_",
	}); err != nil {
		return err
	}

	var overlay func(dst, src reflect.Value, typ reflect.Type)
	overlay = func(dst, src reflect.Value, typ reflect.Type) {
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if field.Type.Kind() == reflect.Struct {
				overlay(dst.Field(i), src.Field(i), field.Type)

				continue
			}

			name, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			if _, set := os.LookupEnv("SQL_ADVISOR_" + name); set {
				dst.Field(i).Set(src.Field(i))
			}
		}
	}

	overlay(reflect.ValueOf(config).Elem(), reflect.ValueOf(fromEnv).Elem(), reflect.TypeOf(*config))

	return nil
}

// loadConfigFromFile loads configuration from a JSON file
func loadConfigFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into a temporary struct to merge with defaults
	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge file config with defaults
	mergeConfigs(config, &fileConfig)

	return nil
}

// applyFlagOverrides applies command-line flag overrides to configuration
func applyFlagOverrides(config *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "db-path":
			if str, ok := value.(string); ok && str != "" {
				config.Database.Path = str
			}
		case "log-level":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Level = str
			}
		case "provider":
			if str, ok := value.(string); ok && str != "" {
				config.LLM.Provider = str
			}
		case "model":
			if str, ok := value.(string); ok && str != "" {
				config.LLM.Model = str
			}
		case "no-history":
			if b, ok := value.(bool); ok && b {
				config.Database.Enabled = false
			}
		}
	}
}

// mergeConfigs merges source configuration into target configuration
func mergeConfigs(target, source *Config) {
	var mergeValues func(t, s reflect.Value)
	mergeValues = func(t, s reflect.Value) {
		if t.Kind() != s.Kind() {
			return
		}

		if t.Kind() == reflect.Struct {
			for i := 0; i < s.NumField(); i++ {
				mergeValues(t.Field(i), s.Field(i))
			}
		} else if s.Kind() == reflect.Bool {
			t.Set(s)
		} else if !s.IsZero() {
			t.Set(s)
		}
	}

	mergeValues(reflect.ValueOf(target).Elem(), reflect.ValueOf(source).Elem())
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return errors.NewConfigError(
			fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level),
			"logging.level",
		)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return errors.NewConfigError(
			fmt.Sprintf("invalid log format: %s (must be text or json)", config.Logging.Format),
			"logging.format",
		)
	}

	validLogOutputs := map[string]bool{
		"stdout": true, "stderr": true, "file": true,
	}
	if !validLogOutputs[strings.ToLower(config.Logging.Output)] {
		return errors.NewConfigError(
			fmt.Sprintf("invalid log output: %s (must be stdout, stderr, or file)", config.Logging.Output),
			"logging.output",
		)
	}

	// A provider without a credential is only valid for local endpoints
	switch strings.ToLower(config.LLM.Provider) {
	case "", "local", "ollama":
	case "openai", "anthropic":
		if config.LLM.APIKey == "" {
			return errors.NewConfigError(
				fmt.Sprintf("provider %s requires an API key", config.LLM.Provider),
				"llm.api_key",
			)
		}
	default:
		return errors.NewConfigError(
			fmt.Sprintf("invalid LLM provider: %s", config.LLM.Provider),
			"llm.provider",
		)
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config) error {
	configPath := getConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	// Check for custom config path from environment
	if configPath := os.Getenv("SQL_ADVISOR_CONFIG"); configPath != "" {
		return ExpandPath(configPath)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(homeDir, ".config", "sql-advisor", "config.json")
}

// ExpandPath expands ~ to home directory in file paths
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ExpandAllPaths expands all paths in the configuration
func (c *Config) ExpandAllPaths() {
	c.Database.Path = ExpandPath(c.Database.Path)
	c.Logging.File = ExpandPath(c.Logging.File)
}

// GetConfigDir returns the configuration directory
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/sql-advisor"
	}

	return filepath.Join(homeDir, ".config", "sql-advisor")
}
