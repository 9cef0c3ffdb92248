package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the kanbot configuration
type Config struct {
	Model       string `json:"model"`
	APIKey      string `json:"api_key"`      // API key for LLM providers
	BaseURL     string `json:"base_url"`     // Base URL for LLM providers (optional)
	MaxMessages int    `json:"max_messages"` // Maximum conversation messages kept in memory
	Debug       bool   `json:"debug"`        // Enable debug logging
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Model:       "openai:gpt-4o",
		MaxMessages: 100,
	}
}

// LoadConfig loads configuration from global and local sources
func LoadConfig(boardDir string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Load global config
	globalCfg, err := loadGlobalConfig()
	if err == nil {
		mergeCfg(cfg, globalCfg)
	}

	// Load local config (takes precedence)
	localCfg, err := loadLocalConfig(boardDir)
	if err == nil {
		mergeCfg(cfg, localCfg)
	}

	return cfg, nil
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "model":
		return c.Model, nil
	case "api_key":
		return c.APIKey, nil
	case "base_url":
		return c.BaseURL, nil
	case "max_messages":
		return c.MaxMessages, nil
	case "debug":
		return c.Debug, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a configuration value by key
func (c *Config) Set(key string, value interface{}) error {
	// Convert value to string (CLI input is always string)
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string value for %s", key)
	}

	switch key {
	case "model":
		c.Model = str
		return nil
	case "api_key":
		c.APIKey = str
		return nil
	case "base_url":
		c.BaseURL = str
		return nil
	case "max_messages":
		val, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("expected numeric value for max_messages, got: %s", str)
		}
		c.MaxMessages = val
		return nil
	case "debug":
		switch str {
		case "true":
			c.Debug = true
		case "false":
			c.Debug = false
		default:
			return fmt.Errorf("expected 'true' or 'false' for debug, got: %s", str)
		}
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// loadGlobalConfig loads configuration from ~/.kanbot/config.json
func loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ".kanbot", "config.json")
	return loadConfigFromFile(configPath)
}

// loadLocalConfig loads configuration from <boardDir>/config.json
func loadLocalConfig(boardDir string) (*Config, error) {
	configPath := filepath.Join(boardDir, "config.json")
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveLocalConfig saves configuration to <boardDir>/config.json
func SaveLocalConfig(boardDir string, cfg *Config) error {
	if err := os.MkdirAll(boardDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(boardDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// mergeCfg merges source config into destination config
func mergeCfg(dst, src *Config) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.MaxMessages > 0 {
		dst.MaxMessages = src.MaxMessages
	}
	if src.Debug {
		dst.Debug = true
	}
}
