package indexer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	Documents []document.Document `json:"documents"`
}

// RegisterRoutes mounts the ingestion endpoint on the given router.
func RegisterRoutes(r chi.Router, p *Pipeline) {
	r.Post("/ingest", handleIngest(p))
}

func handleIngest(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Documents) == 0 {
			http.Error(w, "documents is required", http.StatusBadRequest)
			return
		}

		res := p.Ingest(r.Context(), req.Documents)
		status := http.StatusOK
		if res.Status == StatusFailed {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
