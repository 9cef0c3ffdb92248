package llm

import (
	"strings"
	"testing"
)

func TestCreateAdapterOllama(t *testing.T) {
	adapter, err := CreateAdapter("ollama:llama3", "", "")
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	if adapter.GetModelName() != "llama3" {
		t.Errorf("model = %q, want llama3", adapter.GetModelName())
	}
}

func TestCreateAdapterOpenAI(t *testing.T) {
	adapter, err := CreateAdapter("openai:gpt-4o", "test-key", "")
	if err != nil {
		t.Fatalf("CreateAdapter: %v", err)
	}
	if adapter.GetModelName() != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", adapter.GetModelName())
	}
	if !adapter.IsAvailable() {
		t.Error("adapter with key and model should report available")
	}
}

func TestCreateAdapterBadFormat(t *testing.T) {
	_, err := CreateAdapter("gpt-4o", "key", "")
	if err == nil {
		t.Fatal("expected error for model string without provider prefix")
	}
	if !strings.Contains(err.Error(), "invalid model format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateAdapterUnknownProvider(t *testing.T) {
	_, err := CreateAdapter("groq:whatever", "key", "")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestProviderFromModel(t *testing.T) {
	if got := ProviderFromModel("openai:gpt-4o"); got != "openai" {
		t.Errorf("provider = %q, want openai", got)
	}
	if got := ProviderFromModel("bare"); got != "unknown" {
		t.Errorf("provider = %q, want unknown", got)
	}
}
