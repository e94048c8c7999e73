// Package indexer drives documents through chunking, embedding and the
// similarity index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ziadkadry99/enterprise-search/internal/chunker"
	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/vectordb"
)

// BatchEmbedder embeds many texts at once.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error)
}

// DocumentRecorder is told about every document whose chunks were stored.
type DocumentRecorder interface {
	RecordDocument(ctx context.Context, doc document.Document, chunks int) error
}

// ErrMissingSourceID rejects documents whose chunk IDs would collide.
var ErrMissingSourceID = errors.New("document has no source_id")

// Pipeline ingests documents: chunk, embed, upsert.
type Pipeline struct {
	chunker     *chunker.Chunker
	embedder    BatchEmbedder
	index       vectordb.Index
	concurrency int
	batchSize   int
	recorder    DocumentRecorder
	onProgress  ProgressFunc
	logger      *slog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(c *chunker.Chunker, e BatchEmbedder, idx vectordb.Index, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		chunker:     c,
		embedder:    e,
		index:       idx,
		concurrency: 4,
		logger:      logging.OrDefault(logger),
	}
}

// SetConcurrency sets how many documents are processed at once.
func (p *Pipeline) SetConcurrency(n int) {
	if n > 0 {
		p.concurrency = n
	}
}

// SetBatchSize sets the embedding batch size. Zero uses the embedder's
// default.
func (p *Pipeline) SetBatchSize(n int) {
	p.batchSize = n
}

// SetRecorder sets the document registry notified after each stored
// document.
func (p *Pipeline) SetRecorder(r DocumentRecorder) {
	p.recorder = r
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// Ingest stores every document's chunks. A failing document is skipped and
// reported in the result; the others are still stored. Re-ingesting a
// document overwrites its chunks, since chunk IDs are derived from
// source_id and position.
func (p *Pipeline) Ingest(ctx context.Context, docs []document.Document) Result {
	start := time.Now()
	p.logger.Info("starting ingestion", "documents", len(docs))

	batcher := NewBatcher(p.concurrency, p.onProgress)
	outcomes := batcher.Process(ctx, docs, p.ingestOne)

	res := Result{DocumentsProcessed: len(docs)}
	for i, o := range outcomes {
		if o.Err != nil {
			res.DocumentsFailed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", docs[i].Key(), o.Err))
			p.logger.Error("document ingestion failed", "document", docs[i].Key(), "error", o.Err)
			continue
		}
		res.ChunksCreated += o.Chunks
	}

	switch {
	case res.DocumentsFailed == 0:
		res.Status = StatusSuccess
	case res.DocumentsFailed == len(docs):
		res.Status = StatusFailed
	default:
		res.Status = StatusPartial
	}

	p.logger.Info("ingestion finished",
		"documents", res.DocumentsProcessed,
		"failed", res.DocumentsFailed,
		"chunks", res.ChunksCreated,
		"status", res.Status,
		"duration", time.Since(start).Round(time.Millisecond))
	return res
}

func (p *Pipeline) ingestOne(ctx context.Context, doc document.Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if doc.Metadata.SourceID == "" {
		return 0, ErrMissingSourceID
	}

	texts := p.chunker.Split(doc.Content)
	if len(texts) == 0 {
		return 0, nil
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embed: got %d vectors for %d chunks", len(vectors), len(texts))
	}

	chunks := BuildChunks(doc, texts, vectors)
	if err := p.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	if p.recorder != nil {
		if err := p.recorder.RecordDocument(ctx, doc, len(chunks)); err != nil {
			p.logger.Warn("recording document failed", "document", doc.Key(), "error", err)
		}
	}
	p.logger.Debug("document ingested", "document", doc.Key(), "chunks", len(chunks))
	return len(chunks), nil
}
