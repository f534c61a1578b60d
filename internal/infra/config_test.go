package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.MongoDatabase != "fashion-generation" {
		t.Fatalf("MongoDatabase mismatch: got %q", cfg.MongoDatabase)
	}
	if cfg.OpenAIImageModel != "dall-e-3" {
		t.Fatalf("OpenAIImageModel mismatch: got %q", cfg.OpenAIImageModel)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Fatalf("GenerationTimeout mismatch: got %v", cfg.GenerationTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("OPENAI_API_KEY", "test-key")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is missing")
	}
}

func TestLoadConfigRequiresOpenAIKey(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when OPENAI_API_KEY is missing")
	}
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("ALLOWED_ORIGINS", "https://studio.example.com, http://localhost:3000 ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://studio.example.com", "http://localhost:3000"}
	if len(cfg.AllowedOrigins) != len(expected) {
		t.Fatalf("AllowedOrigins mismatch: got %#v want %#v", cfg.AllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.AllowedOrigins[i] != origin {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}
