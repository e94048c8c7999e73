package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/enterprise-search/internal/search"
	"github.com/ziadkadry99/enterprise-search/internal/synthesis"
)

// searchTimeout bounds one search. The socket outlives the request
// context's deadline, so each message gets its own.
const searchTimeout = 60 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type       string   `json:"type"` // "search"
	Content    string   `json:"content"`
	Sources    []string `json:"sources,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type            string                   `json:"type"` // "response" or "error"
	Content         string                   `json:"content"`
	AnswerHTML      string                   `json:"answer_html,omitempty"`
	Citations       []synthesis.Citation     `json:"citations,omitempty"`
	Documents       []search.DocumentSummary `json:"documents,omitempty"`
	Confidence      float64                  `json:"confidence,omitempty"`
	SourcesSearched []string                 `json:"sources_searched,omitempty"`
	LatencyMS       int64                    `json:"latency_ms,omitempty"`
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Warn("dashboard: websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.logger.Warn("dashboard: websocket read", "error", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, "invalid message format")
			continue
		}

		if strings.TrimSpace(req.Content) == "" {
			d.sendError(conn, "content is required")
			continue
		}

		switch req.Type {
		case "search", "":
			d.handleSearchMessage(conn, r, req)
		default:
			d.sendError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (d *Dashboard) handleSearchMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if d.searcher == nil {
		d.sendError(conn, "search is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), searchTimeout)
	defer cancel()

	res := d.searcher.Search(ctx, search.Request{
		Query:      req.Content,
		Sources:    req.Sources,
		MaxResults: req.MaxResults,
	})

	d.sendResponse(conn, chatResponse{
		Type:            "response",
		Content:         res.Answer,
		AnswerHTML:      d.renderMarkdown(res.Answer),
		Citations:       res.Citations,
		Documents:       res.Documents,
		Confidence:      res.Confidence,
		SourcesSearched: res.SourcesSearched,
		LatencyMS:       res.LatencyMS,
	})
}

func (d *Dashboard) sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		d.logger.Warn("dashboard: websocket write", "error", err)
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, message string) {
	d.sendResponse(conn, chatResponse{Type: "error", Content: message})
}
