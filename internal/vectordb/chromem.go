package vectordb

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// DefaultCollection is the collection chunks are stored in unless configured
// otherwise.
const DefaultCollection = "enterprise_documents"

// ChromemIndex implements Index on a chromem-go collection.
type ChromemIndex struct {
	db          *chromem.DB
	collection  *chromem.Collection
	concurrency int
}

// NewChromemIndex opens (or creates) the named collection in a chromem
// database persisted under dir. Opening an existing collection returns it
// unchanged. ef embeds text for chromem's text-based calls; Upsert and Query
// always pass precomputed vectors.
func NewChromemIndex(dir, collection string, ef chromem.EmbeddingFunc) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", dir, err)
	}
	return newChromemIndex(db, collection, ef)
}

// NewMemoryIndex returns an index that lives only in memory.
func NewMemoryIndex(collection string, ef chromem.EmbeddingFunc) (*ChromemIndex, error) {
	return newChromemIndex(chromem.NewDB(), collection, ef)
}

func newChromemIndex(db *chromem.DB, collection string, ef chromem.EmbeddingFunc) (*ChromemIndex, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	col, err := db.GetOrCreateCollection(collection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", collection, err)
	}
	return &ChromemIndex{
		db:          db,
		collection:  col,
		concurrency: runtime.NumCPU(),
	}, nil
}

func (s *ChromemIndex) Upsert(ctx context.Context, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, ch := range chunks {
		if ch.ID == "" {
			return fmt.Errorf("chunk %d has no id", i)
		}
		if len(ch.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", ch.ID)
		}
		docs[i] = chromem.Document{
			ID:        ch.ID,
			Content:   ch.Content,
			Metadata:  encodeMetadata(ch.Metadata),
			Embedding: ch.Embedding,
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, s.concurrency); err != nil {
		return fmt.Errorf("chromem upsert: %w", err)
	}
	return nil
}

func (s *ChromemIndex) Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	clauses, ok, err := whereClauses(filter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	seen := make(map[string]bool)
	var matches []Match
	for _, where := range clauses {
		if len(where) == 0 {
			where = nil
		}
		results, err := s.collection.QueryEmbedding(ctx, vector, k, where, nil)
		if err != nil {
			return nil, fmt.Errorf("chromem query: %w", err)
		}
		for _, r := range results {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			matches = append(matches, Match{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: decodeMetadata(r.Metadata),
				Distance: 1 - r.Similarity,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *ChromemIndex) Count() int {
	return s.collection.Count()
}
