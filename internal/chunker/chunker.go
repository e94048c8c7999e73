// Package chunker splits normalized document text into overlapping
// fixed-size windows.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults used when no configuration overrides them.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ErrInvalidOverlap is returned when the overlap would stop the window from
// advancing.
var ErrInvalidOverlap = errors.New("chunker: overlap must be smaller than chunk size")

// Chunker produces windows of Size runes, each starting Size-Overlap runes
// after the previous one.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window parameters and returns a Chunker.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w (size %d, overlap %d)", ErrInvalidOverlap, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the window length in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of runes shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Normalize collapses every run of Unicode whitespace to a single space and
// trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split normalizes text and cuts it into windows. The last window may be
// shorter than the chunk size. Empty or whitespace-only text yields nil.
func (c *Chunker) Split(text string) []string {
	runes := []rune(Normalize(text))
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
