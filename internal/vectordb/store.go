package vectordb

import (
	"context"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// Index stores embedded chunks and answers nearest-neighbour queries.
// Implementations must be safe for concurrent readers and writers.
type Index interface {
	// Upsert inserts chunks, replacing any existing chunk with the same ID.
	Upsert(ctx context.Context, chunks []document.Chunk) error

	// Query returns up to k chunks nearest to vector, closest first,
	// restricted to chunks whose metadata satisfies filter (nil for none).
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error)

	// Count returns the number of stored chunks.
	Count() int
}
