package dashboard

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
)

// recentLimit bounds the recent activity list.
const recentLimit = 10

// recentResponse is the JSON response for the recent activity endpoint.
type recentResponse struct {
	Queries []catalog.QueryLog `json:"queries"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	if d.catalog == nil {
		writeJSON(w, http.StatusOK, catalog.Stats{DocumentsBySource: map[string]int{}})
		return
	}

	st, err := d.catalog.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	queries := []catalog.QueryLog{}
	if d.catalog != nil {
		var err error
		queries, err = d.catalog.RecentQueries(r.Context(), recentLimit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, recentResponse{Queries: queries})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

//go:embed index.html
var indexHTML []byte

// ServeIndex serves the embedded chat page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
