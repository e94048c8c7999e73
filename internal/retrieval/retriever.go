// Package retrieval finds the chunks most relevant to a query and reranks
// them with fixed bonuses.
package retrieval

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/vectordb"
)

// Reranking bonuses. The recency bonus only checks that updated_at is
// present; it does not look at the timestamp.
const (
	SubstringBonus = 0.1
	RecencyBonus   = 0.05
)

// overFetch is how many candidates are fetched per requested result.
const overFetch = 2

// AllSources disables source filtering when present in a source list.
const AllSources = "all"

// Result is a retrieved chunk. Similarity is the index similarity
// (1 - distance); Score adds the rerank bonuses and may exceed 1.
type Result struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	Similarity float64        `json:"similarity"`
	Score      float64        `json:"score"`
}

// QueryEmbedder embeds a single query text.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever embeds queries and searches an Index. It holds no per-request
// state and is safe for concurrent use.
type Retriever struct {
	embedder QueryEmbedder
	index    vectordb.Index
	logger   *slog.Logger
}

// New returns a Retriever.
func New(embedder QueryEmbedder, index vectordb.Index, logger *slog.Logger) *Retriever {
	return &Retriever{embedder: embedder, index: index, logger: logging.OrDefault(logger)}
}

// Retrieve returns at most maxResults chunks for q ordered by descending
// score. A nil or empty sources list, or one containing "all", searches
// every source. Embedding or index errors yield an empty list.
func (r *Retriever) Retrieve(ctx context.Context, q string, sources []string, maxResults int) []Result {
	if maxResults <= 0 {
		return []Result{}
	}

	vec, err := r.embedder.Embed(ctx, q)
	if err != nil {
		r.logger.Warn("retrieval: embedding query failed", "error", err)
		return []Result{}
	}

	matches, err := r.index.Query(ctx, vec, overFetch*maxResults, SourceFilter(sources))
	if err != nil {
		r.logger.Warn("retrieval: index query failed", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		sim := 1 - float64(m.Distance)
		results = append(results, Result{
			ID:         m.ID,
			Content:    m.Content,
			Metadata:   m.Metadata,
			Similarity: sim,
			Score:      sim,
		})
	}

	results = Rerank(q, results)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	r.logger.Debug("retrieval complete", "candidates", len(matches), "returned", len(results))
	return results
}

// SourceFilter returns the index filter for a source list, or nil when the
// list is empty or contains "all".
func SourceFilter(sources []string) *vectordb.Filter {
	if len(sources) == 0 || slices.Contains(sources, AllSources) {
		return nil
	}
	return vectordb.FieldIn("source", sources...)
}

// Rerank adds the substring and recency bonuses to each result's Score and
// sorts by descending score. Ties keep the index order.
func Rerank(q string, results []Result) []Result {
	needle := strings.ToLower(q)
	for i := range results {
		score := results[i].Similarity
		if needle != "" && strings.Contains(strings.ToLower(results[i].Content), needle) {
			score += SubstringBonus
		}
		if _, ok := results[i].Metadata["updated_at"]; ok {
			score += RecencyBonus
		}
		results[i].Score = score
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
