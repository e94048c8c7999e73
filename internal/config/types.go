package config

// ProviderType identifies a generative model provider.
type ProviderType string

const (
	ProviderGroq       ProviderType = "groq"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// EmbeddingProviderType identifies an embedding provider.
type EmbeddingProviderType string

const (
	EmbeddingLocal  EmbeddingProviderType = "local"
	EmbeddingOpenAI EmbeddingProviderType = "openai"
	EmbeddingOllama EmbeddingProviderType = "ollama"
)

// Config is the top-level esearch configuration, corresponding to .esearch.yml.
type Config struct {
	LLMProvider          ProviderType          `yaml:"llm_provider" koanf:"llm_provider"`
	LLMModel             string                `yaml:"llm_model" koanf:"llm_model"`
	LLMRequestsPerMinute int                   `yaml:"llm_requests_per_minute" koanf:"llm_requests_per_minute"`
	EmbeddingProvider    EmbeddingProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel       string                `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimension   int                   `yaml:"embedding_dimension" koanf:"embedding_dimension"`
	EmbeddingBatchSize   int                   `yaml:"embedding_batch_size" koanf:"embedding_batch_size"`
	ChunkSize            int                   `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap         int                   `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	DataDir              string                `yaml:"data_dir" koanf:"data_dir"`
	Collection           string                `yaml:"collection" koanf:"collection"`
	MaxResults           int                   `yaml:"max_results" koanf:"max_results"`
	KnownSources         []string              `yaml:"known_sources" koanf:"known_sources"`
	MaxConcurrency       int                   `yaml:"max_concurrency" koanf:"max_concurrency"`
	QueryLog             bool                  `yaml:"query_log" koanf:"query_log"`
	Connectors           ConnectorsConfig      `yaml:"connectors" koanf:"connectors"`
	Server               ServerConfig          `yaml:"server" koanf:"server"`
}

// ConnectorsConfig holds per-source connector settings. Empty directories
// default to <data_dir>/<source>.
type ConnectorsConfig struct {
	Jira       DirConfig        `yaml:"jira" koanf:"jira"`
	Slack      DirConfig        `yaml:"slack" koanf:"slack"`
	Documents  DocumentsConfig  `yaml:"documents" koanf:"documents"`
	Confluence ConfluenceConfig `yaml:"confluence" koanf:"confluence"`
}

// DirConfig points a file-based connector at its export directory.
type DirConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

// DocumentsConfig configures the plain-text documents connector.
type DocumentsConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// ConfluenceConfig configures the Confluence connector. Without a base URL
// pages are read from exported JSON files in Dir. The API token comes from
// CONFLUENCE_API_TOKEN.
type ConfluenceConfig struct {
	Dir      string `yaml:"dir" koanf:"dir"`
	BaseURL  string `yaml:"base_url" koanf:"base_url"`
	SpaceKey string `yaml:"space_key" koanf:"space_key"`
	Username string `yaml:"username" koanf:"username"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port        int      `yaml:"port" koanf:"port"`
	APIPrefix   string   `yaml:"api_prefix" koanf:"api_prefix"`
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
}
