package embeddings

import (
	"context"
	"errors"
)

// Embedder turns texts into fixed-length vectors. Implementations must be
// safe for concurrent use.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of every vector Embed produces.
	Dimensions() int

	// Name identifies the provider and model.
	Name() string
}

// ErrDimensionMismatch is returned when a provider yields a vector whose
// length differs from the configured dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
