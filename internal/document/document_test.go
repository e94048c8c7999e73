package document

import (
	"testing"
	"time"
)

func TestChunkID(t *testing.T) {
	if got := ChunkID("PROJ-101", 3); got != "PROJ-101_chunk_3" {
		t.Errorf("ChunkID = %q, want %q", got, "PROJ-101_chunk_3")
	}
}

func TestFlattenDropsNonScalars(t *testing.T) {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Metadata{
		Source:    SourceJira,
		SourceID:  "PROJ-101",
		Title:     "Login fails",
		UpdatedAt: &updated,
		Tags:      []string{"auth", "bug"},
		Extra: map[string]any{
			"status":   "Open",
			"points":   5,
			"blocking": true,
			"watchers": []string{"alice"},
			"nested":   map[string]any{"a": 1},
			"source":   "spoofed",
		},
	}

	flat := m.Flatten()

	want := map[string]any{
		"source":     SourceJira,
		"source_id":  "PROJ-101",
		"title":      "Login fails",
		"updated_at": "2025-03-01T12:00:00Z",
		"status":     "Open",
		"points":     5,
		"blocking":   true,
	}
	if len(flat) != len(want) {
		t.Fatalf("Flatten returned %d keys, want %d: %v", len(flat), len(want), flat)
	}
	for k, v := range want {
		if flat[k] != v {
			t.Errorf("flat[%q] = %v, want %v", k, flat[k], v)
		}
	}
	for _, k := range []string{"tags", "watchers", "nested", "author", "url", "created_at"} {
		if _, ok := flat[k]; ok {
			t.Errorf("flat should not contain %q", k)
		}
	}
}

func TestIsScalar(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{"x", true},
		{3, true},
		{int64(3), true},
		{2.5, true},
		{false, true},
		{nil, false},
		{[]string{"a"}, false},
		{map[string]any{}, false},
		{time.Now(), false},
	}
	for _, tt := range tests {
		if got := IsScalar(tt.v); got != tt.want {
			t.Errorf("IsScalar(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	d := Document{Metadata: Metadata{Source: SourceSlack, SourceID: "msg-1"}}
	if d.Key() != "slack:msg-1" {
		t.Errorf("Key = %q", d.Key())
	}
}
