package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/chunker"
	"github.com/ziadkadry99/enterprise-search/internal/config"
	"github.com/ziadkadry99/enterprise-search/internal/connectors"
	"github.com/ziadkadry99/enterprise-search/internal/db"
	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/embeddings"
	"github.com/ziadkadry99/enterprise-search/internal/indexer"
	"github.com/ziadkadry99/enterprise-search/internal/llm"
	"github.com/ziadkadry99/enterprise-search/internal/query"
	"github.com/ziadkadry99/enterprise-search/internal/retrieval"
	"github.com/ziadkadry99/enterprise-search/internal/search"
	"github.com/ziadkadry99/enterprise-search/internal/synthesis"
	"github.com/ziadkadry99/enterprise-search/internal/vectordb"
)

// Sampling temperatures for the two model roles.
const (
	interpreterTemperature = 0.1
	synthesisTemperature   = 0.3
)

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetEmbeddingPreset(cfg.EmbeddingProvider).Model
	}

	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, os.Getenv("OPENAI_BASE_URL"), model, cfg.EmbeddingDimension), nil
	case config.EmbeddingOllama:
		return embeddings.NewOllamaEmbedder(model, cfg.EmbeddingDimension, os.Getenv("OLLAMA_HOST")), nil
	case config.EmbeddingLocal, "":
		e, err := embeddings.NewLocalEmbedder(cfg.EmbeddingDimension)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited when llm_requests_per_minute is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	model := cfg.LLMModel
	if model == "" {
		model = config.DefaultModel(cfg.LLMProvider)
	}
	p, err := llm.NewProvider(string(cfg.LLMProvider), model)
	if err != nil {
		return nil, err
	}
	if cfg.LLMRequestsPerMinute > 0 {
		p = llm.NewRateLimitedProvider(p, cfg.LLMRequestsPerMinute)
	}
	return p, nil
}

// buildRegistry creates one connector per known source.
func buildRegistry(cfg *config.Config) *connectors.Registry {
	reg := connectors.NewRegistry()
	for _, source := range cfg.KnownSources {
		switch source {
		case document.SourceJira:
			reg.Register(connectors.NewJiraConnector(cfg.SourceDir(source)))
		case document.SourceSlack:
			reg.Register(connectors.NewSlackConnector(cfg.SourceDir(source)))
		case document.SourceDocuments:
			reg.Register(connectors.NewDocumentConnector(cfg.SourceDir(source),
				cfg.Connectors.Documents.Include, cfg.Connectors.Documents.Exclude))
		case document.SourceConfluence:
			cc := cfg.Connectors.Confluence
			reg.Register(connectors.NewConfluenceConnector(connectors.ConfluenceConfig{
				Dir:      cfg.SourceDir(source),
				BaseURL:  cc.BaseURL,
				Username: cc.Username,
				APIToken: os.Getenv("CONFLUENCE_API_TOKEN"),
				SpaceKey: cc.SpaceKey,
			}))
		}
	}
	return reg
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `esearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app holds the components shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *db.DB
	catalog  *catalog.Store
	client   *embeddings.Client
	index    *vectordb.ChromemIndex
	pipeline *indexer.Pipeline
	registry *connectors.Registry
}

// newApp opens the catalog and the persistent index and builds the
// ingestion pipeline.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	client := embeddings.NewClient(embedder, cfg.EmbeddingBatchSize)

	index, err := vectordb.NewChromemIndex(cfg.IndexDir(), cfg.Collection, client.ChromemFunc())
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	store := catalog.NewStore(database)

	pipeline := indexer.NewPipeline(ch, client, index, logger)
	pipeline.SetConcurrency(cfg.MaxConcurrency)
	pipeline.SetBatchSize(cfg.EmbeddingBatchSize)
	pipeline.SetRecorder(store)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       database,
		catalog:  store,
		client:   client,
		index:    index,
		pipeline: pipeline,
		registry: buildRegistry(cfg),
	}, nil
}

// orchestrator builds the query pipeline. It needs a configured model
// provider.
func (a *app) orchestrator() (*search.Orchestrator, error) {
	provider, err := createLLMProviderFromConfig(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	interp := query.NewInterpreter(llm.NewCompleter(provider, interpreterTemperature, 0), a.cfg.KnownSources, a.logger)
	retr := retrieval.New(a.client, a.index, a.logger)
	synth := synthesis.New(llm.NewCompleter(provider, synthesisTemperature, 0), a.logger)

	o := search.New(interp, retr, synth, a.cfg.KnownSources, a.logger)
	o.SetDefaultMaxResults(a.cfg.MaxResults)
	if a.cfg.QueryLog {
		o.SetRecorder(a.catalog)
	}
	return o, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}
