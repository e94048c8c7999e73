package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLMProvider != ProviderGroq {
		t.Errorf("expected default provider %q, got %q", ProviderGroq, cfg.LLMProvider)
	}
	if cfg.LLMModel != "llama-3.1-8b-instant" {
		t.Errorf("expected default model, got %q", cfg.LLMModel)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("expected 500/50 chunking, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.EmbeddingDimension != 384 || cfg.MaxResults != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.KnownSources) != 4 {
		t.Errorf("expected 4 known sources, got %v", cfg.KnownSources)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.esearch.yml")

	original := DefaultConfig()
	original.LLMProvider = ProviderOpenAI
	original.LLMModel = "gpt-4o"
	original.ChunkSize = 800
	original.ChunkOverlap = 100
	original.KnownSources = []string{"jira", "slack"}
	original.Connectors.Confluence.BaseURL = "https://wiki.example.com"
	original.Server.Port = 9000

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLMProvider != original.LLMProvider || loaded.LLMModel != original.LLMModel {
		t.Errorf("model: got %s/%s", loaded.LLMProvider, loaded.LLMModel)
	}
	if loaded.ChunkSize != 800 || loaded.ChunkOverlap != 100 {
		t.Errorf("chunking: got %d/%d", loaded.ChunkSize, loaded.ChunkOverlap)
	}
	if len(loaded.KnownSources) != 2 || loaded.KnownSources[1] != "slack" {
		t.Errorf("known_sources: got %v", loaded.KnownSources)
	}
	if loaded.Connectors.Confluence.BaseURL != "https://wiki.example.com" || loaded.Server.Port != 9000 {
		t.Errorf("nested sections not round-tripped: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.LLMProvider != ProviderGroq {
		t.Errorf("expected default provider, got %q", cfg.LLMProvider)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("max_results: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxResults != 8 || cfg.ChunkSize != 500 || cfg.Server.APIPrefix != "/api/v1" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ESEARCH_LLM_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("ESEARCH_CHUNK_SIZE", "300")
	t.Setenv("ESEARCH_SERVER__PORT", "8088")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLMModel != "llama-3.3-70b-versatile" {
		t.Errorf("env override failed: got %q", loaded.LLMModel)
	}
	if loaded.ChunkSize != 300 {
		t.Errorf("chunk_size override failed: got %d", loaded.ChunkSize)
	}
	if loaded.Server.Port != 8088 {
		t.Errorf("nested override failed: got %d", loaded.Server.Port)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ESEARCH_TEST_DOTENV=from-file\nESEARCH_TEST_PRESET=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESEARCH_TEST_PRESET", "from-env")
	t.Setenv("ESEARCH_TEST_DOTENV", "")
	os.Unsetenv("ESEARCH_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("ESEARCH_TEST_DOTENV"); got != "from-file" {
		t.Errorf("ESEARCH_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("ESEARCH_TEST_PRESET"); got != "from-env" {
		t.Errorf(".env must not override the environment, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid provider", func(c *Config) { c.LLMProvider = "invalid" }},
		{"empty provider", func(c *Config) { c.LLMProvider = "" }},
		{"empty model", func(c *Config) { c.LLMModel = "" }},
		{"negative rpm", func(c *Config) { c.LLMRequestsPerMinute = -1 }},
		{"invalid embedding provider", func(c *Config) { c.EmbeddingProvider = "bert" }},
		{"remote embedder without model", func(c *Config) { c.EmbeddingProvider = EmbeddingOpenAI; c.EmbeddingModel = "" }},
		{"zero dimension", func(c *Config) { c.EmbeddingDimension = 0 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"overlap equals size", func(c *Config) { c.ChunkSize = 100; c.ChunkOverlap = 100 }},
		{"overlap exceeds size", func(c *Config) { c.ChunkSize = 100; c.ChunkOverlap = 150 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero max results", func(c *Config) { c.MaxResults = 0 }},
		{"no sources", func(c *Config) { c.KnownSources = nil }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSourceDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/data"
	cfg.Connectors.Slack.Dir = "/exports/slack"

	if got := cfg.SourceDir("jira"); got != filepath.Join("/srv/data", "jira") {
		t.Errorf("SourceDir(jira) = %q", got)
	}
	if got := cfg.SourceDir("slack"); got != "/exports/slack" {
		t.Errorf("SourceDir(slack) = %q", got)
	}
	if cfg.IndexDir() != filepath.Join("/srv/data", "chroma") || cfg.DatabasePath() != filepath.Join("/srv/data", "esearch.db") {
		t.Errorf("paths: %s %s", cfg.IndexDir(), cfg.DatabasePath())
	}
}

func TestGetEmbeddingPreset(t *testing.T) {
	if p := GetEmbeddingPreset(EmbeddingOpenAI); p.Model != "text-embedding-3-small" {
		t.Errorf("expected text-embedding-3-small, got %q", p.Model)
	}
	// Unknown provider falls back.
	if p := GetEmbeddingPreset("unknown"); p.Dimension != 384 {
		t.Errorf("expected local fallback, got %+v", p)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderGroq, "GROQ_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"jira", []string{"jira"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
