package config

import (
	"path/filepath"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// DefaultConfigFile is the configuration file looked up in the working
// directory.
const DefaultConfigFile = ".esearch.yml"

// defaultModels maps each provider to the model used when none is chosen.
var defaultModels = map[ProviderType]string{
	ProviderGroq:       "llama-3.1-8b-instant",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "meta-llama/llama-3.1-8b-instruct",
	ProviderOllama:     "llama3",
}

// EmbeddingPreset describes an embedding model and its vector size.
type EmbeddingPreset struct {
	Model     string
	Dimension int
}

var embeddingPresets = map[EmbeddingProviderType]EmbeddingPreset{
	EmbeddingLocal:  {Model: "hash", Dimension: 384},
	EmbeddingOpenAI: {Model: "text-embedding-3-small", Dimension: 384},
	EmbeddingOllama: {Model: "all-minilm", Dimension: 384},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProvider:        ProviderGroq,
		LLMModel:           defaultModels[ProviderGroq],
		EmbeddingProvider:  EmbeddingLocal,
		EmbeddingModel:     embeddingPresets[EmbeddingLocal].Model,
		EmbeddingDimension: embeddingPresets[EmbeddingLocal].Dimension,
		EmbeddingBatchSize: 32,
		ChunkSize:          500,
		ChunkOverlap:       50,
		DataDir:            "data",
		Collection:         "enterprise_documents",
		MaxResults:         5,
		KnownSources: []string{
			document.SourceConfluence,
			document.SourceJira,
			document.SourceSlack,
			document.SourceDocuments,
		},
		MaxConcurrency: 4,
		QueryLog:       true,
		Server: ServerConfig{
			Port:        8000,
			APIPrefix:   "/api/v1",
			CORSOrigins: []string{"*"},
		},
	}
}

// DefaultModel returns the default model for the given provider.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}

// GetEmbeddingPreset returns the default model and dimension for an
// embedding provider. Unknown providers get the local preset.
func GetEmbeddingPreset(p EmbeddingProviderType) EmbeddingPreset {
	if preset, ok := embeddingPresets[p]; ok {
		return preset
	}
	return embeddingPresets[EmbeddingLocal]
}

// IndexDir is where the vector index is persisted.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "chroma")
}

// DatabasePath is the SQLite catalog file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "esearch.db")
}

// SourceDir returns the export directory for a file-based connector.
func (c *Config) SourceDir(source string) string {
	var dir string
	switch source {
	case document.SourceJira:
		dir = c.Connectors.Jira.Dir
	case document.SourceSlack:
		dir = c.Connectors.Slack.Dir
	case document.SourceDocuments:
		dir = c.Connectors.Documents.Dir
	case document.SourceConfluence:
		dir = c.Connectors.Confluence.Dir
	}
	if dir == "" {
		dir = filepath.Join(c.DataDir, source)
	}
	return dir
}
