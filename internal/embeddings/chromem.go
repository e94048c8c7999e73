package embeddings

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemFunc adapts the client to chromem's single-text embedding callback,
// used when a collection is queried or filled by text rather than vector.
func (c *Client) ChromemFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return c.Embed(ctx, text)
	}
}
