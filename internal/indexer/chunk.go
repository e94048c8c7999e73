package indexer

import (
	"unicode/utf8"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// BuildChunks pairs each text window of doc with its vector. Chunk metadata
// is the document's flattened metadata plus chunk_index, chunk_total and
// length (in runes).
func BuildChunks(doc document.Document, texts []string, vectors [][]float32) []document.Chunk {
	base := doc.Metadata.Flatten()
	chunks := make([]document.Chunk, len(texts))
	for i, text := range texts {
		md := make(map[string]any, len(base)+3)
		for k, v := range base {
			md[k] = v
		}
		md["chunk_index"] = i
		md["chunk_total"] = len(texts)
		md["length"] = utf8.RuneCountInString(text)

		chunks[i] = document.Chunk{
			ID:        document.ChunkID(doc.Metadata.SourceID, i),
			Content:   text,
			Embedding: vectors[i],
			Metadata:  md,
		}
	}
	return chunks
}
