package query

import (
	"regexp"
	"strings"
)

// DefaultIntent is used when the model does not report an intent.
const DefaultIntent = "search"

// AllSources is the sentinel source meaning "search everything".
const AllSources = "all"

// Analysis is the normalized interpretation of a user query.
type Analysis struct {
	OriginalQuery     string   `json:"original_query"`
	Intent            string   `json:"intent"`
	Entities          []string `json:"entities"`
	Sources           []string `json:"sources"`
	TimeConstraint    *string  `json:"time_constraint"`
	ReformulatedQuery string   `json:"reformulated_query"`
}

// Default returns the analysis used when interpretation yields nothing:
// search every source with the original wording.
func Default(q string) Analysis {
	return Analysis{
		OriginalQuery:     q,
		Intent:            DefaultIntent,
		Entities:          []string{},
		Sources:           []string{AllSources},
		ReformulatedQuery: q,
	}
}

// Reply holds the labelled fields found in a model response. A nil field
// means its line was absent or empty.
type Reply struct {
	Intent       *string
	Entities     *string
	Sources      *string
	Time         *string
	Reformulated *string
}

var (
	intentLine       = labelPattern("INTENT")
	entitiesLine     = labelPattern("ENTITIES")
	sourcesLine      = labelPattern("SOURCES")
	timeLine         = labelPattern("TIME")
	reformulatedLine = labelPattern("REFORMULATED")
)

// labelPattern matches "LABEL: value" at the start of a line, tolerating
// leading whitespace and markdown emphasis around the label.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^[ \t]*[*_]*` + label + `[*_]*[ \t]*:[*_]*[ \t]*(.*\S)[ \t\r]*$`)
}

func field(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

// ParseReply extracts each labelled line independently.
func ParseReply(text string) Reply {
	return Reply{
		Intent:       field(intentLine, text),
		Entities:     field(entitiesLine, text),
		Sources:      field(sourcesLine, text),
		Time:         field(timeLine, text),
		Reformulated: field(reformulatedLine, text),
	}
}

// ParseAnalysis builds an Analysis for q from a model reply, defaulting each
// missing field on its own.
func ParseAnalysis(q, reply string) Analysis {
	a := Default(q)
	if strings.TrimSpace(reply) == "" {
		return a
	}

	r := ParseReply(reply)
	if r.Intent != nil {
		a.Intent = strings.ToLower(*r.Intent)
	}
	if r.Entities != nil && !isNone(*r.Entities) {
		a.Entities = splitList(*r.Entities)
	}
	if r.Sources != nil && !isNone(*r.Sources) {
		if sources := splitList(strings.ToLower(*r.Sources)); len(sources) > 0 {
			a.Sources = sources
		}
	}
	if r.Time != nil && !isNone(*r.Time) {
		t := *r.Time
		a.TimeConstraint = &t
	}
	if r.Reformulated != nil {
		a.ReformulatedQuery = *r.Reformulated
	}
	return a
}

func isNone(s string) bool {
	switch strings.ToLower(strings.Trim(s, `"' .`)) {
	case "none", "n/a", "null":
		return true
	}
	return false
}

// splitList splits a comma-separated value, trimming items and dropping
// empty ones.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
