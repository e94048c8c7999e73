// Package search runs the question-answering pipeline: interpret the query,
// retrieve chunks, then synthesize a cited answer.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/query"
	"github.com/ziadkadry99/enterprise-search/internal/retrieval"
	"github.com/ziadkadry99/enterprise-search/internal/synthesis"
)

// DefaultMaxResults applies when a request does not set MaxResults.
const DefaultMaxResults = 5

// excerptLength bounds document excerpts in responses, in runes.
const excerptLength = 200

// ErrEmptyQuery is reported when a request carries no query text.
var ErrEmptyQuery = errors.New("query must not be empty")

// Analyzer interprets a raw query.
type Analyzer interface {
	Analyze(ctx context.Context, q string) query.Analysis
}

// Retriever fetches ranked chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, q string, sources []string, maxResults int) []retrieval.Result
}

// Synthesizer answers a query from ranked chunks.
type Synthesizer interface {
	Synthesize(ctx context.Context, q string, results []retrieval.Result) synthesis.Result
}

// QueryRecorder stores a log entry for each completed search.
type QueryRecorder interface {
	RecordQuery(ctx context.Context, q string, resultsCount int, latencyMS int64, sources []string) error
}

// Request is one search call. Sources, when non-empty, overrides the
// sources inferred from the query.
type Request struct {
	Query      string   `json:"query"`
	Sources    []string `json:"sources,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// DocumentSummary describes one retrieved chunk in a Response.
type DocumentSummary struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
	URL     string  `json:"url,omitempty"`
}

// Response is the outcome of a search. Failures are reported through Answer;
// there is no separate error channel.
type Response struct {
	Query           string               `json:"query"`
	QueryAnalysis   *query.Analysis      `json:"query_analysis,omitempty"`
	Answer          string               `json:"answer"`
	Citations       []synthesis.Citation `json:"citations"`
	Confidence      float64              `json:"confidence"`
	Documents       []DocumentSummary    `json:"documents"`
	SourcesSearched []string             `json:"sources_searched"`
	LatencyMS       int64                `json:"latency_ms"`
}

// Orchestrator sequences the pipeline stages for one request at a time; it
// holds no per-request state and may serve concurrent requests.
type Orchestrator struct {
	analyzer     Analyzer
	retriever    Retriever
	synthesizer  Synthesizer
	knownSources []string
	maxResults   int
	recorder     QueryRecorder
	logger       *slog.Logger
}

// New creates an Orchestrator. knownSources is what the "all" sentinel
// stands for.
func New(a Analyzer, r Retriever, s Synthesizer, knownSources []string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		analyzer:     a,
		retriever:    r,
		synthesizer:  s,
		knownSources: knownSources,
		maxResults:   DefaultMaxResults,
		logger:       logging.OrDefault(logger),
	}
}

// SetRecorder sets the query log sink. A nil recorder disables logging.
func (o *Orchestrator) SetRecorder(r QueryRecorder) {
	o.recorder = r
}

// SetDefaultMaxResults sets the result count used when a request leaves
// MaxResults unset.
func (o *Orchestrator) SetDefaultMaxResults(n int) {
	if n > 0 {
		o.maxResults = n
	}
}

// KnownSources returns the sources "all" expands to.
func (o *Orchestrator) KnownSources() []string {
	return slices.Clone(o.knownSources)
}

// Search answers req. It never returns an error: a failing stage produces
// a response whose Answer describes the failure.
func (o *Orchestrator) Search(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	searched := req.Sources

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("search panicked", "query", req.Query, "panic", r)
			resp = o.failure(req, searched, start, fmt.Errorf("%v", r))
		}
	}()

	if strings.TrimSpace(req.Query) == "" {
		return o.failure(req, searched, start, ErrEmptyQuery)
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = o.maxResults
	}

	o.logger.Info("analyzing query", "query", req.Query)
	analysis := o.analyzer.Analyze(ctx, req.Query)

	requested := req.Sources
	if len(requested) == 0 {
		requested = analysis.Sources
	}
	var filter []string
	searched, filter = o.resolveSources(requested)

	o.logger.Info("retrieving", "sources", searched, "query", analysis.ReformulatedQuery)
	results := o.retriever.Retrieve(ctx, analysis.ReformulatedQuery, filter, maxResults)

	o.logger.Info("synthesizing answer", "documents", len(results))
	answer := o.synthesizer.Synthesize(ctx, req.Query, results)

	latency := time.Since(start).Milliseconds()
	if o.recorder != nil {
		if err := o.recorder.RecordQuery(ctx, req.Query, len(results), latency, searched); err != nil {
			o.logger.Warn("recording query failed", "error", err)
		}
	}

	o.logger.Info("search completed", "latency_ms", latency, "documents", len(results), "confidence", answer.Confidence)
	return Response{
		Query:           req.Query,
		QueryAnalysis:   &analysis,
		Answer:          answer.Answer,
		Citations:       nonNil(answer.Citations),
		Confidence:      answer.Confidence,
		Documents:       summarize(results),
		SourcesSearched: searched,
		LatencyMS:       latency,
	}
}

// resolveSources expands the "all" sentinel. It returns the sources to
// report as searched and the retrieval filter; the filter is nil when every
// source is searched, so chunks from sources outside the known list stay
// reachable.
func (o *Orchestrator) resolveSources(requested []string) (searched, filter []string) {
	if len(requested) == 0 || slices.Contains(requested, query.AllSources) {
		return o.KnownSources(), nil
	}
	return slices.Clone(requested), requested
}

func (o *Orchestrator) failure(req Request, searched []string, start time.Time, err error) Response {
	o.logger.Error("search failed", "query", req.Query, "error", err)
	if searched == nil {
		searched = []string{}
	}
	return Response{
		Query:           req.Query,
		Answer:          fmt.Sprintf("An error occurred: %v", err),
		Citations:       []synthesis.Citation{},
		Documents:       []DocumentSummary{},
		SourcesSearched: searched,
		LatencyMS:       time.Since(start).Milliseconds(),
	}
}

func summarize(results []retrieval.Result) []DocumentSummary {
	out := make([]DocumentSummary, len(results))
	for i, r := range results {
		excerpt := r.Content
		if rs := []rune(excerpt); len(rs) > excerptLength {
			excerpt = string(rs[:excerptLength])
		}
		out[i] = DocumentSummary{
			ID:      r.ID,
			Source:  document.String(r.Metadata, "source"),
			Title:   document.String(r.Metadata, "title"),
			Excerpt: excerpt,
			Score:   r.Score,
			URL:     document.String(r.Metadata, "url"),
		}
	}
	return out
}

func nonNil(c []synthesis.Citation) []synthesis.Citation {
	if c == nil {
		return []synthesis.Citation{}
	}
	return c
}
