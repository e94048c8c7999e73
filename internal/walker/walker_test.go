package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalkFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.txt", "last")
	writeFile(t, root, "a.txt", "first")
	writeFile(t, root, "guides/setup.txt", "nested")
	writeFile(t, root, "notes.md", "markdown")
	writeFile(t, root, "drafts/wip.txt", "excluded")
	writeFile(t, root, ".git/HEAD.txt", "ignored dir")
	writeFile(t, root, "blob.txt", "bin\x00ary")

	files, err := Walk(Config{
		RootDir: root,
		Include: []string{"**/*.txt"},
		Exclude: []string{"drafts/**"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := strings.Join(relPaths(files), ",")
	if want := "a.txt,guides/setup.txt,z.txt"; got != want {
		t.Errorf("Walk() = %s, want %s", got, want)
	}
	for _, f := range files {
		if f.ModTime.IsZero() || f.Size == 0 {
			t.Errorf("%s: missing stat info %+v", f.RelPath, f)
		}
	}
}

func TestWalkMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "ok")
	writeFile(t, root, "big.txt", strings.Repeat("x", 100))

	files, err := Walk(Config{RootDir: root, MaxFileSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := relPaths(files); len(got) != 1 || got[0] != "small.txt" {
		t.Errorf("Walk() = %v", got)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	files, err := Walk(Config{RootDir: filepath.Join(t.TempDir(), "nope")})
	if err != nil || len(files) != 0 {
		t.Errorf("Walk() = %v, %v; want no files and no error", files, err)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"docs/guide.txt", []string{"**/*.txt"}, true},
		{"guide.txt", []string{"*.txt"}, true},
		{"deep/dir/guide.txt", []string{"*.txt"}, true}, // base name match
		{"deep/dir/guide.md", []string{"**/*.txt"}, false},
		{"drafts/x.txt", []string{"drafts/**"}, true},
	}
	for _, tt := range tests {
		if got := matchesAny(tt.path, tt.patterns); got != tt.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
	if !MatchesInclude("anything", nil) || MatchesExclude("anything", nil) {
		t.Error("empty pattern lists must include everything and exclude nothing")
	}
}
