// Package config handles persisted settings and personas for gemchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diogo/gemchat/internal/models"
)

const (
	// EnvAPIKey is the environment variable that overrides the stored API key.
	EnvAPIKey = "GEMINI_API_KEY"

	// EnvBaseURL points the client at a different API endpoint, mainly
	// useful behind proxies.
	EnvBaseURL = "GEMINI_BASE_URL"
)

// Config represents the user configuration
type Config struct {
	// APIKey authenticates requests against the generative language API.
	// The GEMINI_API_KEY environment variable takes precedence, so the key
	// never has to touch disk.
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model"`
	// Persona names the entry in personas.json whose instruction opens
	// every new conversation.
	Persona         string  `json:"persona,omitempty"`
	Temperature     float64 `json:"temperature"`
	CopyToClipboard bool    `json:"copy_to_clipboard"`
	Theme           string  `json:"theme,omitempty"` // TUI color theme
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:           models.DefaultModel.Name,
		Persona:         DefaultPersonaName,
		Temperature:     models.DefaultTemperature,
		CopyToClipboard: false,
		Theme:           "dark",
	}
}

// ResolveAPIKey returns the key requests should use: the environment
// override when present, the stored key otherwise.
func (c Config) ResolveAPIKey() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return c.APIKey
}

// Validate checks that the configuration values are usable
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f is outside the accepted range [0, 2]", c.Temperature)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".gemchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// Use 0o700 for sensitive directories (contains the API key)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fields absent from an older config file keep their defaults; an
	// emptied model would break every request, so restore it.
	if cfg.Model == "" {
		cfg.Model = models.DefaultModel.Name
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Use 0o600 for sensitive files (config may contain the API key)
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AvailableModels returns the model names accepted by `config set model`
func AvailableModels() []string {
	catalog := models.AllModels()
	names := make([]string, 0, len(catalog))
	for _, m := range catalog {
		names = append(names, m.Name)
	}
	return names
}
