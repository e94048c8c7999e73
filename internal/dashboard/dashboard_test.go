package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/db"
	"github.com/ziadkadry99/enterprise-search/internal/document"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/search"
	"github.com/ziadkadry99/enterprise-search/internal/synthesis"
)

type fakeSearcher struct {
	mu       sync.Mutex
	requests []search.Request
	answer   string
}

func (f *fakeSearcher) Search(_ context.Context, req search.Request) search.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return search.Response{
		Query:  req.Query,
		Answer: f.answer,
		Citations: []synthesis.Citation{
			{SourceNumber: 1, Source: "jira", Title: "Login bug", Excerpt: "Login fails"},
		},
		Confidence:      0.8,
		Documents:       []search.DocumentSummary{{ID: "jira:PROJ-1", Source: "jira", Title: "Login bug"}},
		SourcesSearched: []string{"jira"},
		LatencyMS:       12,
	}
}

func setupTest(t *testing.T, s Searcher) (*Dashboard, *catalog.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := catalog.NewStore(database)
	return New(s, store, logging.Discard()), store
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func dial(t *testing.T, r chi.Router) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg chatRequest) chatResponse {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestStatsEndpoint(t *testing.T) {
	d, store := setupTest(t, nil)
	r := setupRouter(d)
	ctx := t.Context()

	for _, id := range []string{"PROJ-1", "PROJ-2"} {
		doc := document.Document{Content: "x", Metadata: document.Metadata{
			Source: document.SourceJira, SourceID: id, Title: id,
		}}
		if err := store.RecordDocument(ctx, doc, 3); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.RecordQuery(ctx, "login", 2, 40, []string{"jira"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats catalog.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("expected 2 documents, got %d", stats.TotalDocuments)
	}
	if stats.TotalChunks != 6 {
		t.Errorf("expected 6 chunks, got %d", stats.TotalChunks)
	}
	if stats.QueriesToday != 1 {
		t.Errorf("expected 1 query today, got %d", stats.QueriesToday)
	}
}

func TestStatsWithoutCatalog(t *testing.T) {
	r := setupRouter(New(nil, nil, logging.Discard()))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total_documents":0`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestRecentEndpointLimits(t *testing.T) {
	d, store := setupTest(t, nil)
	r := setupRouter(d)
	ctx := t.Context()

	for i := 0; i < 15; i++ {
		if err := store.RecordQuery(ctx, "query", 1, 10, nil); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/recent", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var recent recentResponse
	if err := json.NewDecoder(w.Body).Decode(&recent); err != nil {
		t.Fatalf("decoding recent: %v", err)
	}
	if len(recent.Queries) != recentLimit {
		t.Errorf("expected %d queries, got %d", recentLimit, len(recent.Queries))
	}
}

func TestWebSocketSearch(t *testing.T) {
	fs := &fakeSearcher{answer: "The **login** bug is tracked [Source 1].\n\n```go\nfmt.Println(\"retry\")\n```"}
	d, _ := setupTest(t, fs)
	conn := dial(t, setupRouter(d))

	resp := roundTrip(t, conn, chatRequest{Type: "search", Content: "login bug", Sources: []string{"jira"}, MaxResults: 3})

	if resp.Type != "response" {
		t.Fatalf("expected response type, got %q (%s)", resp.Type, resp.Content)
	}
	if resp.Content != fs.answer {
		t.Errorf("content = %q", resp.Content)
	}
	if !strings.Contains(resp.AnswerHTML, "<strong>login</strong>") {
		t.Errorf("answer_html missing emphasis: %s", resp.AnswerHTML)
	}
	if !strings.Contains(resp.AnswerHTML, "<pre") {
		t.Errorf("answer_html missing code block: %s", resp.AnswerHTML)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].Source != "jira" {
		t.Errorf("citations = %+v", resp.Citations)
	}
	if resp.Confidence != 0.8 || resp.LatencyMS != 12 {
		t.Errorf("confidence = %v, latency = %d", resp.Confidence, resp.LatencyMS)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) != 1 {
		t.Fatalf("expected 1 search, got %d", len(fs.requests))
	}
	got := fs.requests[0]
	if got.Query != "login bug" || got.MaxResults != 3 || len(got.Sources) != 1 || got.Sources[0] != "jira" {
		t.Errorf("request = %+v", got)
	}
}

func TestWebSocketEscapesRawHTML(t *testing.T) {
	d, _ := setupTest(t, &fakeSearcher{answer: "<script>alert(1)</script>\n\nplain"})
	conn := dial(t, setupRouter(d))

	resp := roundTrip(t, conn, chatRequest{Type: "search", Content: "x"})
	if strings.Contains(resp.AnswerHTML, "<script>") {
		t.Errorf("raw HTML passed through: %s", resp.AnswerHTML)
	}
	if !strings.Contains(resp.AnswerHTML, "plain") {
		t.Errorf("answer_html = %s", resp.AnswerHTML)
	}
}

func TestWebSocketErrors(t *testing.T) {
	tests := []struct {
		name     string
		searcher Searcher
		msg      chatRequest
		want     string
	}{
		{"no searcher", nil, chatRequest{Type: "search", Content: "hello"}, "search is not configured"},
		{"empty content", &fakeSearcher{}, chatRequest{Type: "search", Content: "  "}, "content is required"},
		{"unknown type", &fakeSearcher{}, chatRequest{Type: "unknown", Content: "hello"}, "unknown message type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := setupTest(t, tt.searcher)
			conn := dial(t, setupRouter(d))

			resp := roundTrip(t, conn, tt.msg)
			if resp.Type != "error" {
				t.Errorf("expected error type, got %q", resp.Type)
			}
			if !strings.Contains(resp.Content, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, resp.Content)
			}
		})
	}
}

func TestWebSocketInvalidJSON(t *testing.T) {
	d, _ := setupTest(t, &fakeSearcher{})
	conn := dial(t, setupRouter(d))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || resp.Content != "invalid message format" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestServeIndex(t *testing.T) {
	d, _ := setupTest(t, nil)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Enterprise Search") {
		t.Error("expected HTML to contain 'Enterprise Search'")
	}
}
