package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to esearch! Let's configure your search index.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Model provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"groq", "openai", "openrouter", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLMProvider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.LLMProvider),
	}
	if cfg.LLMModel, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Embedding provider.
	embeddingPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{
			"local  - offline hashing embedder",
			"openai - OpenAI embeddings API",
			"ollama - local Ollama server",
		},
	}
	embeddingIdx, _, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	kinds := []EmbeddingProviderType{EmbeddingLocal, EmbeddingOpenAI, EmbeddingOllama}
	cfg.EmbeddingProvider = kinds[embeddingIdx]
	preset := GetEmbeddingPreset(cfg.EmbeddingProvider)
	cfg.EmbeddingModel = preset.Model

	// 4. Vector size.
	dimPrompt := promptui.Prompt{
		Label:   "Embedding dimension",
		Default: strconv.Itoa(preset.Dimension),
		Validate: func(s string) error {
			if n, err := strconv.Atoi(s); err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	dimStr, err := dimPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding dimension: %w", err)
	}
	cfg.EmbeddingDimension, _ = strconv.Atoi(dimStr)

	// 5. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (source exports, index and catalog)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 6. Sources.
	sourcesPrompt := promptui.Prompt{
		Label:   "Known sources (comma-separated)",
		Default: strings.Join(cfg.KnownSources, ","),
	}
	sourcesStr, err := sourcesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	if sources := splitAndTrim(sourcesStr); len(sources) > 0 {
		cfg.KnownSources = sources
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.LLMProvider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment or .env before running esearch.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
