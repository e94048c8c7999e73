package search

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the search endpoint on the given router.
func RegisterRoutes(r chi.Router, o *Orchestrator) {
	r.Post("/search", handleSearch(o))
}

func handleSearch(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}
		if req.MaxResults < 0 {
			http.Error(w, "max_results must not be negative", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, o.Search(r.Context(), req))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
