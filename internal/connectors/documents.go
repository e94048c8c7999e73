package connectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/walker"
)

// DefaultDocumentPatterns selects the files the documents connector reads.
var DefaultDocumentPatterns = []string{"**/*.txt"}

// DocumentConnector reads plain text files from a directory tree.
type DocumentConnector struct {
	dir     string
	include []string
	exclude []string
}

// NewDocumentConnector reads files under dir matching include (default
// DefaultDocumentPatterns) and not matching exclude.
func NewDocumentConnector(dir string, include, exclude []string) *DocumentConnector {
	if len(include) == 0 {
		include = DefaultDocumentPatterns
	}
	return &DocumentConnector{dir: dir, include: include, exclude: exclude}
}

func (c *DocumentConnector) Source() string { return document.SourceDocuments }

// FetchDocuments returns one document per file. The source_id is the file's
// path, so FetchDocument takes the same path.
func (c *DocumentConnector) FetchDocuments(ctx context.Context) ([]document.Document, error) {
	files, err := walker.Walk(walker.Config{RootDir: c.dir, Include: c.include, Exclude: c.exclude})
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}

	docs := make([]document.Document, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("documents: reading %s: %w", f.RelPath, err)
		}

		mod := f.ModTime.UTC()
		docs = append(docs, document.Document{
			Content: string(data),
			Metadata: document.Metadata{
				Source:    document.SourceDocuments,
				SourceID:  f.Path,
				Title:     stem(f.RelPath),
				Author:    "System",
				UpdatedAt: &mod,
				URL:       "file://" + filepath.ToSlash(f.Path),
				Extra:     map[string]any{"file_type": filepath.Ext(f.Path)},
			},
		})
	}
	return docs, nil
}

func (c *DocumentConnector) FetchDocument(ctx context.Context, id string) (*document.Document, error) {
	return findDocument(ctx, c, id)
}

func (c *DocumentConnector) Search(ctx context.Context, q string) ([]document.Document, error) {
	return searchDocuments(ctx, c, q)
}
