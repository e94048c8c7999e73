package query

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/enterprise-search/internal/logging"
)

// fakeCompleter returns a canned reply and records prompts.
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	panics  bool
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.panics {
		panic("provider exploded")
	}
	return f.reply, f.err
}

var known = []string{"confluence", "jira", "slack", "documents"}

func TestAnalyzeFullReply(t *testing.T) {
	fc := &fakeCompleter{reply: `INTENT: question
ENTITIES: login service, SSO
SOURCES: Jira, slack
TIME: last week
REFORMULATED: login service SSO failures`}
	in := NewInterpreter(fc, known, logging.Discard())

	a := in.Analyze(context.Background(), "why does login break?")

	want := Analysis{
		OriginalQuery:     "why does login break?",
		Intent:            "question",
		Entities:          []string{"login service", "SSO"},
		Sources:           []string{"jira", "slack"},
		ReformulatedQuery: "login service SSO failures",
	}
	tc := "last week"
	want.TimeConstraint = &tc
	if !reflect.DeepEqual(a, want) {
		t.Errorf("Analyze =\n%+v\nwant\n%+v", a, want)
	}

	if len(fc.prompts) != 1 || !strings.Contains(fc.prompts[0], "why does login break?") ||
		!strings.Contains(fc.prompts[0], "confluence, jira, slack, documents") {
		t.Errorf("unexpected prompt %q", fc.prompts)
	}
}

func TestAnalyzeDegradesToDefault(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeCompleter
	}{
		{"provider error", &fakeCompleter{err: errors.New("connection refused")}},
		{"empty reply", &fakeCompleter{reply: "   \n"}},
		{"panic", &fakeCompleter{panics: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewInterpreter(tt.fc, known, logging.Discard()).Analyze(context.Background(), "What is enterprise search?")
			if !reflect.DeepEqual(a, Default("What is enterprise search?")) {
				t.Errorf("got %+v, want defaults", a)
			}
		})
	}
}

func TestParseAnalysisFieldsDefaultIndependently(t *testing.T) {
	q := "deploy runbook"
	tests := []struct {
		name  string
		reply string
		check func(t *testing.T, a Analysis)
	}{
		{
			name:  "only reformulated",
			reply: "REFORMULATED: production deployment runbook",
			check: func(t *testing.T, a Analysis) {
				if a.ReformulatedQuery != "production deployment runbook" {
					t.Errorf("reformulated = %q", a.ReformulatedQuery)
				}
				if a.Intent != DefaultIntent || len(a.Entities) != 0 || !reflect.DeepEqual(a.Sources, []string{AllSources}) || a.TimeConstraint != nil {
					t.Errorf("other fields not defaulted: %+v", a)
				}
			},
		},
		{
			name:  "prose without labels",
			reply: "I think the user wants a runbook.",
			check: func(t *testing.T, a Analysis) {
				if !reflect.DeepEqual(a, Default(q)) {
					t.Errorf("got %+v, want defaults", a)
				}
			},
		},
		{
			name:  "none values",
			reply: "ENTITIES: none\nTIME: \"none\"\nSOURCES: all",
			check: func(t *testing.T, a Analysis) {
				if len(a.Entities) != 0 || a.TimeConstraint != nil || !reflect.DeepEqual(a.Sources, []string{"all"}) {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "none sources",
			reply: "INTENT: search\nSOURCES: None",
			check: func(t *testing.T, a Analysis) {
				if !reflect.DeepEqual(a.Sources, []string{AllSources}) {
					t.Errorf("sources = %v, want all", a.Sources)
				}
			},
		},
		{
			name:  "empty label values",
			reply: "INTENT:\nSOURCES: ,  ,\nREFORMULATED:   ",
			check: func(t *testing.T, a Analysis) {
				if !reflect.DeepEqual(a, Default(q)) {
					t.Errorf("got %+v, want defaults", a)
				}
			},
		},
		{
			name:  "markdown and crlf",
			reply: "**INTENT:** summary\r\n  **SOURCES:** confluence\r\n",
			check: func(t *testing.T, a Analysis) {
				if a.Intent != "summary" || !reflect.DeepEqual(a.Sources, []string{"confluence"}) {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "label must start the line",
			reply: "The answer mentions SOURCES: jira inline",
			check: func(t *testing.T, a Analysis) {
				if !reflect.DeepEqual(a.Sources, []string{AllSources}) {
					t.Errorf("inline label parsed: %+v", a.Sources)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseAnalysis(q, tt.reply))
		})
	}
}

func TestAnalyzeDropsUnknownSources(t *testing.T) {
	tests := []struct {
		reply string
		want  []string
	}{
		{"SOURCES: sharepoint", []string{AllSources}},
		{"SOURCES: sharepoint, jira", []string{"jira"}},
		{"SOURCES: none", []string{AllSources}},
		{"SOURCES: all", []string{AllSources}},
	}
	for _, tt := range tests {
		in := NewInterpreter(&fakeCompleter{reply: tt.reply}, known, logging.Discard())
		if got := in.Analyze(context.Background(), "q").Sources; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: sources = %v, want %v", tt.reply, got, tt.want)
		}
	}
}

func TestParseReplyAbsentFieldsAreNil(t *testing.T) {
	r := ParseReply("INTENT: search")
	if r.Intent == nil || *r.Intent != "search" {
		t.Errorf("intent = %v", r.Intent)
	}
	if r.Entities != nil || r.Sources != nil || r.Time != nil || r.Reformulated != nil {
		t.Errorf("absent fields should be nil: %+v", r)
	}
}
