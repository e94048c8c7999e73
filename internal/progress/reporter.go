// Package progress reports ingestion progress on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a connector's documents are
// ingested. Update may be called from several goroutines.
type Reporter interface {
	Start(label string, total int)
	Update(done, total int, title string)
	Finish(summary string)
}

// NewReporter returns a CIReporter if the CI environment variable is set,
// or a TerminalReporter otherwise. Output goes to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(label string, total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Ingesting "+label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(done, total int, title string) {
	if r.bar != nil {
		_ = r.bar.Set(done)
	}
}

func (r *TerminalReporter) Finish(summary string) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	fmt.Fprintln(r.w, summary)
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w  io.Writer
	mu sync.Mutex
}

func (r *CIReporter) Start(label string, total int) {
	fmt.Fprintf(r.w, "Ingesting %d %s document(s)\n", total, label)
}

func (r *CIReporter) Update(done, total int, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[%d/%d] %s\n", done, total, title)
}

func (r *CIReporter) Finish(summary string) {
	fmt.Fprintln(r.w, summary)
}
