package embeddings

import (
	"context"
	"fmt"
)

// DefaultBatchSize is used when a caller passes a non-positive batch size.
const DefaultBatchSize = 32

// Client wraps an Embedder with batching and dimension checks. Embed and
// EmbedBatch go through the same provider call, so a text embeds to the same
// vector whichever is used.
type Client struct {
	embedder  Embedder
	batchSize int
}

// NewClient returns a Client over e. batchSize is the default used by
// EmbedBatch when the caller passes zero.
func NewClient(e Embedder, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{embedder: e, batchSize: batchSize}
}

// Dimensions returns the vector length every call produces.
func (c *Client) Dimensions() int { return c.embedder.Dimensions() }

// Name returns the underlying provider name.
func (c *Client) Name() string { return c.embedder.Name() }

// Embed returns the vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text}, 1)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in groups of batchSize and returns the vectors in
// input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = c.batchSize
	}

	dims := c.embedder.Dimensions()
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))
		vecs, err := c.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding with %s: %w", c.embedder.Name(), err)
		}
		if len(vecs) != end-i {
			return nil, fmt.Errorf("embedding with %s: got %d vectors for %d texts", c.embedder.Name(), len(vecs), end-i)
		}
		for j, v := range vecs {
			if len(v) != dims {
				return nil, fmt.Errorf("%w: text %d has %d dimensions, want %d", ErrDimensionMismatch, i+j, len(v), dims)
			}
		}
		out = append(out, vecs...)
	}
	return out, nil
}
