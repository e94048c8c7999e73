package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewRejectsInvalidWindows(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
		wantOverlap   bool
	}{
		{"overlap equals size", 10, 10, true},
		{"overlap exceeds size", 10, 12, true},
		{"zero size", 0, 0, false},
		{"negative overlap", 10, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidOverlap); got != tt.wantOverlap {
				t.Errorf("errors.Is(err, ErrInvalidOverlap) = %v, want %v", got, tt.wantOverlap)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello \n\n\tworld   again \r\n", "hello world again"},
		{"Enterprise\u00a0\u00a0search systems\u3000index", "Enterprise search systems index"},
		{"\u2003wiki\u00a0page\u2003", "wiki page"},
		{"\u00a0\u3000", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	c, err := New(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := c.Split(in); len(got) != 0 {
			t.Errorf("Split(%q) = %v, want no chunks", in, got)
		}
	}
}

func TestSplitShortText(t *testing.T) {
	c, _ := New(500, 50)
	got := c.Split("Enterprise search systems allow organizations to index information.")
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
}

func TestSplitWindows(t *testing.T) {
	c, _ := New(10, 3)
	got := c.Split("abcdefghijklmnopqrstuvwxyz")
	want := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitBetweenStepAndSize(t *testing.T) {
	c, _ := New(500, 50)
	text := strings.Repeat("x", 475)
	got := c.Split(text)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0] != text {
		t.Errorf("first chunk has %d runes, want the whole text", len(got[0]))
	}
	if got[1] != strings.Repeat("x", 25) {
		t.Errorf("second chunk = %d runes, want the 25-rune tail", len(got[1]))
	}
}

// reconstruct joins chunks, dropping the overlap carried at the head of every
// chunk after the first.
func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, ch := range chunks {
		r := []rune(ch)
		if i > 0 {
			if overlap >= len(r) {
				continue
			}
			r = r[overlap:]
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func TestSplitReconstructsNormalizedText(t *testing.T) {
	texts := []string{
		"a",
		"The quick brown fox jumps over the lazy dog.",
		strings.Repeat("lorem ipsum dolor sit amet ", 57),
		"naïve café résumé — ünïcödé text ✓ " + strings.Repeat("日本語のテキスト ", 20),
		"  leading\tand trailing \n whitespace  ",
	}
	windows := [][2]int{{10, 0}, {10, 3}, {7, 6}, {50, 5}, {500, 50}, {1, 0}}

	for _, text := range texts {
		norm := Normalize(text)
		n := utf8.RuneCountInString(norm)
		for _, w := range windows {
			c, err := New(w[0], w[1])
			if err != nil {
				t.Fatal(err)
			}
			chunks := c.Split(text)

			if got := reconstruct(chunks, w[1]); got != norm {
				t.Errorf("size=%d overlap=%d: reconstruction mismatch\n got %q\nwant %q", w[0], w[1], got, norm)
			}

			step := w[0] - w[1]
			wantCount := (n + step - 1) / step
			if len(chunks) != wantCount {
				t.Errorf("size=%d overlap=%d len=%d: got %d chunks, want %d", w[0], w[1], n, len(chunks), wantCount)
			}

			for i, ch := range chunks {
				if utf8.RuneCountInString(ch) > w[0] {
					t.Errorf("chunk %d longer than window: %d runes", i, utf8.RuneCountInString(ch))
				}
			}
		}
	}
}
