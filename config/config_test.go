package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "openai:gpt-4o" {
		t.Errorf("Expected default model 'openai:gpt-4o', got '%s'", cfg.Model)
	}

	if cfg.MaxMessages != 100 {
		t.Errorf("Expected default MaxMessages 100, got %d", cfg.MaxMessages)
	}

	if cfg.APIKey != "" {
		t.Error("Expected default APIKey to be empty")
	}

	if cfg.Debug {
		t.Error("Expected default Debug to be false")
	}
}

func TestConfigGet(t *testing.T) {
	cfg := &Config{
		Model:       "test:model",
		APIKey:      "test-key",
		BaseURL:     "http://test.com",
		MaxMessages: 42,
		Debug:       true,
	}

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"model", "test:model"},
		{"api_key", "test-key"},
		{"base_url", "http://test.com"},
		{"max_messages", 42},
		{"debug", true},
	}

	for _, test := range tests {
		value, err := cfg.Get(test.key)
		if err != nil {
			t.Errorf("Unexpected error for key '%s': %v", test.key, err)
			continue
		}
		if value != test.expected {
			t.Errorf("Key '%s': expected %v, got %v", test.key, test.expected, value)
		}
	}

	if _, err := cfg.Get("nope"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("model", "ollama:llama3"); err != nil {
		t.Fatalf("Set model: %v", err)
	}
	if cfg.Model != "ollama:llama3" {
		t.Errorf("Model = %q", cfg.Model)
	}

	if err := cfg.Set("max_messages", "25"); err != nil {
		t.Fatalf("Set max_messages: %v", err)
	}
	if cfg.MaxMessages != 25 {
		t.Errorf("MaxMessages = %d", cfg.MaxMessages)
	}

	if err := cfg.Set("max_messages", "lots"); err == nil {
		t.Error("Expected error for non-numeric max_messages")
	}

	if err := cfg.Set("debug", "true"); err != nil {
		t.Fatalf("Set debug: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}

	if err := cfg.Set("debug", "maybe"); err == nil {
		t.Error("Expected error for bad debug value")
	}

	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestSaveAndLoadLocalConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Model = "ollama:llama3"
	cfg.MaxMessages = 7

	if err := SaveLocalConfig(dir, cfg); err != nil {
		t.Fatalf("SaveLocalConfig: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Model != "ollama:llama3" {
		t.Errorf("Model = %q", loaded.Model)
	}
	if loaded.MaxMessages != 7 {
		t.Errorf("MaxMessages = %d", loaded.MaxMessages)
	}
}

func TestLoadConfigMissingFilesUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model == "" {
		t.Error("expected defaults when no config files exist")
	}
}
