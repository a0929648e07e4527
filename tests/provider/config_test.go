package provider_test

import (
	"strings"
	"testing"

	"github.com/veridia/clauseguard/internal/provider"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := provider.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("model: got %s, want claude-sonnet-4-5", cfg.Model)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("max_tokens: got %d, want 1024", cfg.MaxTokens)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER_MODEL", "claude-haiku-4-5")
	t.Setenv("TEST_PROVIDER_API_KEY", "sk-test")

	env := &provider.Env{
		Model:  "TEST_PROVIDER_MODEL",
		APIKey: "TEST_PROVIDER_API_KEY",
	}

	cfg := provider.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Model != "claude-haiku-4-5" {
		t.Errorf("model: got %s, want claude-haiku-4-5", cfg.Model)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("api_key: got %s, want sk-test", cfg.APIKey)
	}
}

func TestMerge(t *testing.T) {
	base := provider.Config{
		Model:     "claude-sonnet-4-5",
		APIKey:    "base-key",
		MaxTokens: 1024,
	}

	overlay := provider.Config{
		Model:     "claude-opus-4-1",
		MaxTokens: 2048,
	}
	base.Merge(&overlay)

	if base.Model != "claude-opus-4-1" {
		t.Errorf("model: got %s, want claude-opus-4-1", base.Model)
	}
	if base.APIKey != "base-key" {
		t.Errorf("api_key should remain base-key, got %s", base.APIKey)
	}
	if base.MaxTokens != 2048 {
		t.Errorf("max_tokens: got %d, want 2048", base.MaxTokens)
	}
}

func TestMergeZeroValuesPreserved(t *testing.T) {
	base := provider.Config{
		Model:     "claude-sonnet-4-5",
		MaxTokens: 1024,
	}

	overlay := provider.Config{}
	base.Merge(&overlay)

	if base.Model != "claude-sonnet-4-5" {
		t.Errorf("model should be preserved, got %s", base.Model)
	}
	if base.MaxTokens != 1024 {
		t.Errorf("max_tokens should be preserved, got %d", base.MaxTokens)
	}
}

func TestFinalizeNeverLeavesModelEmpty(t *testing.T) {
	cfg := provider.Config{MaxTokens: -5}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		t.Error("model should never finalize empty")
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("negative max_tokens should reset to 1024, got %d", cfg.MaxTokens)
	}
}
