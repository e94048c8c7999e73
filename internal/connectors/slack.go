package connectors

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

type slackMessage struct {
	ID        string `json:"id"`
	Channel   string `json:"channel"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	ThreadTS  string `json:"thread_ts"`
	Permalink string `json:"permalink"`
}

// SlackConnector reads exported messages, one JSON object per file.
type SlackConnector struct {
	dir string
}

// NewSlackConnector reads messages from dir.
func NewSlackConnector(dir string) *SlackConnector {
	return &SlackConnector{dir: dir}
}

func (c *SlackConnector) Source() string { return document.SourceSlack }

func (c *SlackConnector) FetchDocuments(ctx context.Context) ([]document.Document, error) {
	msgs, files, err := readJSONFiles[slackMessage](ctx, c.dir)
	if err != nil {
		return nil, fmt.Errorf("slack: %w", err)
	}

	docs := make([]document.Document, len(msgs))
	for i, m := range msgs {
		channel := orDefault(m.Channel, "general")
		ts := parseTime(m.Timestamp)

		extra := map[string]any{"channel": channel}
		if m.ThreadTS != "" {
			extra["thread_ts"] = m.ThreadTS
		}

		docs[i] = document.Document{
			Content: m.Text,
			Metadata: document.Metadata{
				Source:    document.SourceSlack,
				SourceID:  orDefault(m.ID, stem(files[i].RelPath)),
				Title:     fmt.Sprintf("#%s - %s", channel, m.Timestamp),
				Author:    orDefault(m.User, "Unknown"),
				CreatedAt: ts,
				UpdatedAt: ts,
				URL:       m.Permalink,
				Extra:     extra,
			},
		}
	}
	return docs, nil
}

func (c *SlackConnector) FetchDocument(ctx context.Context, id string) (*document.Document, error) {
	return findDocument(ctx, c, id)
}

func (c *SlackConnector) Search(ctx context.Context, q string) ([]document.Document, error) {
	return searchDocuments(ctx, c, q)
}
