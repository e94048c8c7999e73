package indexer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// Outcome is the result for the document at the same position in the
// input slice.
type Outcome struct {
	Chunks int
	Err    error
}

// Batcher runs a per-document function over a worker pool.
type Batcher struct {
	concurrency int
	onProgress  ProgressFunc
}

// NewBatcher creates a new Batcher with the given concurrency limit.
func NewBatcher(concurrency int, onProgress ProgressFunc) *Batcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batcher{concurrency: concurrency, onProgress: onProgress}
}

// Process calls fn for every document, at most concurrency at a time.
// Results are indexed like docs. Documents not started before ctx is
// cancelled get ctx's error.
func (b *Batcher) Process(ctx context.Context, docs []document.Document, fn func(context.Context, document.Document) (int, error)) []Outcome {
	results := make([]Outcome, len(docs))
	total := len(docs)
	if total == 0 {
		return results
	}

	sem := make(chan struct{}, b.concurrency)
	var processed int64
	var wg sync.WaitGroup

	done := func(doc document.Document) {
		count := atomic.AddInt64(&processed, 1)
		if b.onProgress != nil {
			b.onProgress(int(count), total, doc.Metadata.Title)
		}
	}

	for i, doc := range docs {
		select {
		case <-ctx.Done():
			results[i] = Outcome{Err: ctx.Err()}
			done(doc)
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, doc document.Document) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Outcome{Err: fmt.Errorf("panic: %v", r)}
				}
				done(doc)
			}()

			n, err := fn(ctx, doc)
			results[i] = Outcome{Chunks: n, Err: err}
		}(i, doc)
	}

	wg.Wait()
	return results
}
