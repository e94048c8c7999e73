// Package query turns a raw user question into a structured Analysis using
// a generative model.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ziadkadry99/enterprise-search/internal/llm"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
)

const promptTemplate = `Analyze the following user query and extract:
1. Primary intent (search, question, summary, comparison)
2. Key entities mentioned
3. Relevant data sources (%s)
4. Time constraints if any
5. Reformulated query for better search

Query: %s

Respond in this format:
INTENT: <intent>
ENTITIES: <comma-separated entities>
SOURCES: <comma-separated sources>
TIME: <time constraint or "none">
REFORMULATED: <better query>`

// Interpreter analyzes queries with a model. Analyze never fails: any model
// error degrades to Default.
type Interpreter struct {
	llm     llm.Completer
	sources []string
	logger  *slog.Logger
}

// NewInterpreter returns an Interpreter that offers knownSources to the
// model as candidate data sources.
func NewInterpreter(c llm.Completer, knownSources []string, logger *slog.Logger) *Interpreter {
	return &Interpreter{llm: c, sources: knownSources, logger: logging.OrDefault(logger)}
}

// Prompt renders the analysis prompt for q.
func (i *Interpreter) Prompt(q string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(i.sources, ", "), q)
}

// Analyze interprets q.
func (i *Interpreter) Analyze(ctx context.Context, q string) (a Analysis) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("query analysis panicked", "panic", r)
			a = Default(q)
		}
	}()

	reply, err := i.llm.Complete(ctx, i.Prompt(q))
	if err != nil {
		i.logger.Warn("query analysis failed, searching with original query", "error", err)
		return Default(q)
	}
	if strings.TrimSpace(reply) == "" {
		i.logger.Warn("query analysis returned an empty response")
		return Default(q)
	}

	a = ParseAnalysis(q, reply)
	a.Sources = i.knownOnly(a.Sources)
	i.logger.Debug("query analyzed",
		"intent", a.Intent,
		"sources", a.Sources,
		"reformulated", a.ReformulatedQuery)
	return a
}

// knownOnly drops source names the model made up. When nothing known
// remains every source is searched.
func (i *Interpreter) knownOnly(sources []string) []string {
	if len(i.sources) == 0 {
		return sources
	}
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == AllSources || slices.Contains(i.sources, s) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{AllSources}
	}
	return out
}
