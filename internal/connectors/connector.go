// Package connectors turns the contents of enterprise sources into
// documents.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/walker"
)

// Connector produces documents from one source.
type Connector interface {
	// Source is the name stamped on every document's metadata.
	Source() string
	// FetchDocuments returns every document the source holds.
	FetchDocuments(ctx context.Context) ([]document.Document, error)
	// FetchDocument returns the document with the given source_id, or nil
	// when there is none.
	FetchDocument(ctx context.Context, id string) (*document.Document, error)
	// Search returns the documents whose content contains q, ignoring case.
	Search(ctx context.Context, q string) ([]document.Document, error)
}

// Registry holds connectors keyed by source name.
type Registry struct {
	connectors map[string]Connector
}

// NewRegistry returns a registry holding the given connectors.
func NewRegistry(cs ...Connector) *Registry {
	r := &Registry{connectors: make(map[string]Connector, len(cs))}
	for _, c := range cs {
		r.Register(c)
	}
	return r
}

// Register adds c, replacing any connector for the same source.
func (r *Registry) Register(c Connector) {
	r.connectors[c.Source()] = c
}

// Get returns the connector for source.
func (r *Registry) Get(source string) (Connector, bool) {
	c, ok := r.connectors[source]
	return c, ok
}

// Sources returns the registered source names, sorted.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.connectors))
	for s := range r.connectors {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// findDocument fetches every document and picks the one with source_id id.
func findDocument(ctx context.Context, c Connector, id string) (*document.Document, error) {
	docs, err := c.FetchDocuments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].Metadata.SourceID == id {
			return &docs[i], nil
		}
	}
	return nil, nil
}

// searchDocuments fetches every document and keeps those whose content
// contains q, ignoring case.
func searchDocuments(ctx context.Context, c Connector, q string) ([]document.Document, error) {
	docs, err := c.FetchDocuments(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	var out []document.Document
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Content), needle) {
			out = append(out, d)
		}
	}
	return out, nil
}

// readJSONFiles decodes every *.json file under dir into a new T. The
// returned slices are parallel.
func readJSONFiles[T any](ctx context.Context, dir string) ([]T, []walker.FileInfo, error) {
	files, err := walker.Walk(walker.Config{RootDir: dir, Include: []string{"**/*.json"}})
	if err != nil {
		return nil, nil, err
	}

	items := make([]T, 0, len(files))
	kept := make([]walker.FileInfo, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", f.RelPath, err)
		}
		items = append(items, item)
		kept = append(kept, f)
	}
	return items, kept, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and zone-less ISO 8601 timestamps. Zone-less
// values are read as UTC. Unparseable or empty input yields nil.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// stem returns the file name without directory or extension.
func stem(relPath string) string {
	base := relPath[strings.LastIndex(relPath, "/")+1:]
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
