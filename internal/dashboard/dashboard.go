// Package dashboard serves a browser chat interface over the search
// pipeline.
package dashboard

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
	"github.com/ziadkadry99/enterprise-search/internal/search"
)

// Searcher answers search requests.
type Searcher interface {
	Search(ctx context.Context, req search.Request) search.Response
}

// Dashboard provides the chat page and its websocket.
type Dashboard struct {
	searcher Searcher
	catalog  *catalog.Store
	md       goldmark.Markdown
	logger   *slog.Logger
}

// New creates a new Dashboard. catalog may be nil, in which case the stats
// and recent endpoints report empty data.
func New(searcher Searcher, store *catalog.Store, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		searcher: searcher,
		catalog:  store,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
		),
		logger: logging.OrDefault(logger),
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/api/dashboard/recent", d.handleRecent)
	r.Get("/ws/chat", d.handleWebSocket)
}

// renderMarkdown converts an answer to HTML. Raw HTML in the answer is
// escaped.
func (d *Dashboard) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(src), &buf); err != nil {
		d.logger.Warn("dashboard: rendering answer failed", "error", err)
		return ""
	}
	return buf.String()
}
