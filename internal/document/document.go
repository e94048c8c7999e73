package document

import (
	"fmt"
	"time"
)

// Well-known source names produced by the bundled connectors.
const (
	SourceConfluence = "confluence"
	SourceJira       = "jira"
	SourceSlack      = "slack"
	SourceDocuments  = "documents"
)

// Metadata describes where a Document came from. Source and SourceID
// together identify the originating document.
type Metadata struct {
	Source    string     `json:"source"`
	SourceID  string     `json:"source_id"`
	Title     string     `json:"title"`
	Author    string     `json:"author,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	URL       string     `json:"url,omitempty"`
	Tags      []string   `json:"tags,omitempty"`

	// Extra carries source-specific fields (issue status, priority, channel,
	// file type, ...). Only scalar values survive Flatten.
	Extra map[string]any `json:"extra,omitempty"`
}

// Document is the uniform representation connectors produce.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Key returns the catalog identity of the document, "source:source_id".
func (d Document) Key() string {
	return d.Metadata.Source + ":" + d.Metadata.SourceID
}

// Chunk is a window of a document's normalized text together with its
// embedding and flattened provenance metadata.
type Chunk struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]any
}

// ChunkID derives the identifier of the index-th chunk of a document.
func ChunkID(sourceID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", sourceID, index)
}

// Flatten returns the metadata as a map of scalar values. Empty optional
// fields are omitted and non-scalar values (tags, nested objects) are dropped.
func (m Metadata) Flatten() map[string]any {
	out := map[string]any{
		"source":    m.Source,
		"source_id": m.SourceID,
		"title":     m.Title,
	}
	if m.Author != "" {
		out["author"] = m.Author
	}
	if m.CreatedAt != nil {
		out["created_at"] = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	if m.UpdatedAt != nil {
		out["updated_at"] = m.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if m.URL != "" {
		out["url"] = m.URL
	}
	for k, v := range m.Extra {
		if _, reserved := out[k]; reserved {
			continue
		}
		if IsScalar(v) {
			out[k] = v
		}
	}
	return out
}

// IsScalar reports whether v is a string, bool, or number.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// String returns metadata value key as a string, or "" if it is absent or
// not a string.
func String(md map[string]any, key string) string {
	s, _ := md[key].(string)
	return s
}
