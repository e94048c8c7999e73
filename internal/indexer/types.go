package indexer

// Ingestion outcome statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Result summarizes one ingestion run. DocumentsProcessed counts every
// document handed to the run, including failed ones.
type Result struct {
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentsFailed    int      `json:"documents_failed"`
	ChunksCreated      int      `json:"chunks_created"`
	Status             string   `json:"status"`
	Errors             []string `json:"errors,omitempty"`
}

// ProgressFunc is called after each document finishes.
type ProgressFunc func(done, total int, label string)
