// Package catalog records ingested documents and answered queries, and
// derives corpus statistics from them.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ziadkadry99/enterprise-search/internal/db"
	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Entry is a catalogued document.
type Entry struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	SourceID   string     `json:"source_id"`
	Title      string     `json:"title"`
	Author     string     `json:"author,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	URL        string     `json:"url,omitempty"`
	Tags       []string   `json:"tags"`
	ChunkCount int        `json:"chunk_count"`
	IndexedAt  time.Time  `json:"indexed_at"`
}

// QueryLog is one answered search.
type QueryLog struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Timestamp    time.Time `json:"timestamp"`
	ResultsCount int       `json:"results_count"`
	LatencyMS    int64     `json:"latency_ms"`
	SourcesUsed  []string  `json:"sources_used"`
}

// Stats summarizes the catalog.
type Stats struct {
	TotalDocuments    int            `json:"total_documents"`
	TotalChunks       int            `json:"total_chunks"`
	DocumentsBySource map[string]int `json:"documents_by_source"`
	SourcesConnected  int            `json:"sources_connected"`
	QueriesToday      int            `json:"queries_today"`
	AvgLatencyMS      float64        `json:"avg_latency_ms"`
}

// Store manages the documents and query_logs tables.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a new catalog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// RecordDocument inserts or replaces the catalog entry for doc.
func (s *Store) RecordDocument(ctx context.Context, doc document.Document, chunks int) error {
	md := doc.Metadata
	tags, err := json.Marshal(nonNilStrings(md.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	extra := []byte("{}")
	if len(md.Extra) > 0 {
		if extra, err = json.Marshal(md.Extra); err != nil {
			return fmt.Errorf("encoding extra metadata: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, source, source_id, title, author, created_at, updated_at, url, tags, extra, chunk_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title, author = excluded.author,
		   created_at = excluded.created_at, updated_at = excluded.updated_at,
		   url = excluded.url, tags = excluded.tags, extra = excluded.extra,
		   chunk_count = excluded.chunk_count, indexed_at = excluded.indexed_at`,
		doc.Key(), md.Source, md.SourceID, md.Title, md.Author,
		formatTime(md.CreatedAt), formatTime(md.UpdatedAt), md.URL,
		string(tags), string(extra), chunks, s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording document %s: %w", doc.Key(), err)
	}
	return nil
}

// GetDocument returns the entry with id "source:source_id", or nil.
func (s *Store) GetDocument(ctx context.Context, id string) (*Entry, error) {
	var (
		e                Entry
		created, updated sql.NullString
		tags, indexedAt  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, source_id, title, author, created_at, updated_at, url, tags, chunk_count, indexed_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&e.ID, &e.Source, &e.SourceID, &e.Title, &e.Author, &created, &updated, &e.URL, &tags, &e.ChunkCount, &indexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	if t := parseTime(sql.NullString{String: indexedAt, Valid: true}); t != nil {
		e.IndexedAt = *t
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return &e, nil
}

// RecordQuery appends a query log entry.
func (s *Store) RecordQuery(ctx context.Context, q string, resultsCount int, latencyMS int64, sources []string) error {
	used, err := json.Marshal(nonNilStrings(sources))
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query_logs (id, query, timestamp, results_count, latency_ms, sources_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), q, s.now().UTC().Format(timeLayout), resultsCount, latencyMS, string(used),
	)
	if err != nil {
		return fmt.Errorf("logging query: %w", err)
	}
	return nil
}

// RecentQueries returns up to limit query logs, newest first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]QueryLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, timestamp, results_count, latency_ms, sources_used
		 FROM query_logs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing queries: %w", err)
	}
	defer rows.Close()

	logs := []QueryLog{}
	for rows.Next() {
		var (
			l        QueryLog
			ts, used string
		)
		if err := rows.Scan(&l.ID, &l.Query, &ts, &l.ResultsCount, &l.LatencyMS, &used); err != nil {
			return nil, fmt.Errorf("scanning query log: %w", err)
		}
		if t := parseTime(sql.NullString{String: ts, Valid: true}); t != nil {
			l.Timestamp = *t
		}
		if err := json.Unmarshal([]byte(used), &l.SourcesUsed); err != nil {
			return nil, fmt.Errorf("decoding sources: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Stats computes corpus and query statistics. "Today" starts at midnight
// UTC.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DocumentsBySource: map[string]int{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*), COALESCE(SUM(chunk_count), 0) FROM documents GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			source       string
			docs, chunks int
		)
		if err := rows.Scan(&source, &docs, &chunks); err != nil {
			return nil, fmt.Errorf("scanning document counts: %w", err)
		}
		st.DocumentsBySource[source] = docs
		st.TotalDocuments += docs
		st.TotalChunks += chunks
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	st.SourcesConnected = len(st.DocumentsBySource)

	midnight := s.now().UTC().Truncate(24 * time.Hour).Format(timeLayout)
	var avg sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(latency_ms) FROM query_logs WHERE timestamp >= ?`, midnight,
	).Scan(&st.QueriesToday, &avg)
	if err != nil {
		return nil, fmt.Errorf("counting queries: %w", err)
	}
	if avg.Valid {
		st.AvgLatencyMS = avg.Float64
	}
	return st, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return &t
		}
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// sourceInfo describes the well-known sources.
var sourceInfo = map[string]struct{ name, description string }{
	document.SourceConfluence: {"Confluence", "Wiki and documentation"},
	document.SourceJira:       {"Jira", "Project management and issues"},
	document.SourceSlack:      {"Slack", "Team communications"},
	document.SourceDocuments:  {"Documents", "File storage"},
}

// Source is one searchable source.
type Source struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Documents   int    `json:"documents"`
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Sources describes each of the given sources with its document count.
func (s *Store) Sources(ctx context.Context, known []string) ([]Source, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Source, len(known))
	for i, id := range known {
		info, ok := sourceInfo[id]
		if !ok {
			info.name = titleCase(id)
		}
		out[i] = Source{ID: id, Name: info.name, Description: info.description, Documents: st.DocumentsBySource[id]}
	}
	return out, nil
}
