package embeddings

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/minio/highwayhash"
)

// hashKey seeds feature hashing. Changing it changes every stored vector.
var hashKey = []byte("esearch-local-embedder-feature-k")

// LocalEmbedder is an offline embedder that hashes word and character
// trigram features into a fixed number of buckets. Texts sharing vocabulary
// get a positive cosine similarity; it has no notion of synonyms.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder returns a feature-hashing embedder producing vectors of
// length dims.
func NewLocalEmbedder(dims int) (*LocalEmbedder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("local embedder: dimensions must be positive, got %d", dims)
	}
	return &LocalEmbedder{dims: dims}, nil
}

func (e *LocalEmbedder) Name() string { return fmt.Sprintf("local/hash-%d", e.dims) }

func (e *LocalEmbedder) Dimensions() int { return e.dims }

func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *LocalEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		vec[e.bucket(w)] += 1.0

		padded := []rune("^" + w + "$")
		for i := 0; i+3 <= len(padded); i++ {
			vec[e.bucket(string(padded[i:i+3]))] += 0.5
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Text without letters or digits still needs a unit vector.
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func (e *LocalEmbedder) bucket(feature string) int {
	return int(highwayhash.Sum64([]byte(feature), hashKey) % uint64(e.dims))
}
