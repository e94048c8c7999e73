package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/db"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0, Version: "1.2.3"}, logging.Discard())
	srv.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", body.Status)
	}
	if body.Version != "1.2.3" {
		t.Errorf("version = %q", body.Version)
	}
	if body.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q", body.Timestamp)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, CORSOrigins: []string{"*"}}, logging.Discard())

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestCORSDefaultRejectsForeignOrigin(t *testing.T) {
	srv := New(Config{Port: 0}, logging.Discard())

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Allow-Origin %q", got)
	}
}

func TestAPIPrefixMountsFeatureRoutes(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	srv := New(Config{APIPrefix: "/api/v1", Version: "dev"}, logging.Discard())
	store := catalog.NewStore(database)
	srv.API(func(r chi.Router) {
		catalog.RegisterRoutes(r, store, []string{"jira"})
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/sources", `"jira"`},
		{"/api/v1/stats", `"total_documents"`},
		{"/api/v1", `"Enterprise Search API"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.want)
			}
		})
	}
}
