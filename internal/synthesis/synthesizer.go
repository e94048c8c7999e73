// Package synthesis writes a cited answer from retrieved chunks.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/llm"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/retrieval"
)

// Context window limits. Lengths count runes.
const (
	MaxContextDocs = 5
	ContentBudget  = 500
	ExcerptLength  = 200
)

// Fixed answers for the degraded paths.
const (
	NoResultsAnswer = "I couldn't find any relevant information to answer your question."
	FailureAnswer   = "An error occurred while generating the answer."
)

const promptTemplate = `You are an enterprise search assistant. Answer the question based ONLY on the provided context.
Include specific references to sources by mentioning [Source N] where N is the source number.

Context:
%s

Question: %s

Provide a comprehensive answer with citations. Format citations as [Source 1], [Source 2], etc.

Answer:`

var citationMarker = regexp.MustCompile(`\[Source (\d+)\]`)

// Citation links a [Source N] marker in an answer to the chunk it names.
type Citation struct {
	SourceNumber int    `json:"source_number"`
	Source       string `json:"source"`
	Title        string `json:"title"`
	URL          string `json:"url,omitempty"`
	Excerpt      string `json:"excerpt"`
}

// Result is a synthesized answer.
type Result struct {
	Answer     string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	Confidence float64    `json:"confidence"`
}

// Synthesizer answers questions from ranked chunks. Synthesize never fails:
// model errors produce FailureAnswer with zero confidence.
type Synthesizer struct {
	llm    llm.Completer
	logger *slog.Logger
}

// New returns a Synthesizer.
func New(c llm.Completer, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{llm: c, logger: logging.OrDefault(logger)}
}

// Synthesize answers q from results, which must already be ranked.
func (s *Synthesizer) Synthesize(ctx context.Context, q string, results []retrieval.Result) (res Result) {
	if len(results) == 0 {
		return Result{Answer: NoResultsAnswer, Citations: []Citation{}}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("synthesis panicked", "panic", r)
			res = Result{Answer: FailureAnswer, Citations: []Citation{}}
		}
	}()

	used := results[:min(len(results), MaxContextDocs)]
	answer, err := s.llm.Complete(ctx, Prompt(q, used))
	if err != nil {
		s.logger.Error("synthesis failed", "error", err)
		return Result{Answer: FailureAnswer, Citations: []Citation{}}
	}

	return Result{
		Answer:     answer,
		Citations:  ExtractCitations(answer, used),
		Confidence: Confidence(used),
	}
}

// Prompt renders the answer prompt for q over the context documents.
func Prompt(q string, used []retrieval.Result) string {
	return fmt.Sprintf(promptTemplate, BuildContext(used), q)
}

// BuildContext labels each document [Source N] with its source and title,
// followed by at most ContentBudget runes of its content.
func BuildContext(used []retrieval.Result) string {
	parts := make([]string, len(used))
	for i, r := range used {
		parts[i] = fmt.Sprintf("[Source %d] (%s - %s)\n%s\n",
			i+1,
			document.String(r.Metadata, "source"),
			document.String(r.Metadata, "title"),
			truncate(r.Content, ContentBudget))
	}
	return strings.Join(parts, "\n")
}

// ExtractCitations returns one citation per distinct [Source N] marker in
// answer that names an entry of used, ordered by N. Out-of-range markers are
// ignored.
func ExtractCitations(answer string, used []retrieval.Result) []Citation {
	seen := make(map[int]bool)
	var numbers []int
	for _, m := range citationMarker.FindAllStringSubmatch(answer, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(used) || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	citations := make([]Citation, 0, len(numbers))
	for _, n := range numbers {
		r := used[n-1]
		citations = append(citations, Citation{
			SourceNumber: n,
			Source:       document.String(r.Metadata, "source"),
			Title:        document.String(r.Metadata, "title"),
			URL:          document.String(r.Metadata, "url"),
			Excerpt:      truncate(r.Content, ExcerptLength),
		})
	}
	return citations
}

// Confidence is the mean Score of used, clipped to [0, 1]. It is 0 for no
// documents.
func Confidence(used []retrieval.Result) float64 {
	if len(used) == 0 {
		return 0
	}
	var sum float64
	for _, r := range used {
		sum += r.Score
	}
	return min(max(sum/float64(len(used)), 0), 1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
