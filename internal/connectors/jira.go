package connectors

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

type jiraIssue struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	IssueType   string   `json:"issue_type"`
	Reporter    string   `json:"reporter"`
	Assignee    string   `json:"assignee"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	URL         string   `json:"url"`
	Labels      []string `json:"labels"`
	Comments    string   `json:"comments"`
}

// JiraConnector reads exported issues, one JSON object per file.
type JiraConnector struct {
	dir string
}

// NewJiraConnector reads issues from dir.
func NewJiraConnector(dir string) *JiraConnector {
	return &JiraConnector{dir: dir}
}

func (c *JiraConnector) Source() string { return document.SourceJira }

func (c *JiraConnector) FetchDocuments(ctx context.Context) ([]document.Document, error) {
	issues, files, err := readJSONFiles[jiraIssue](ctx, c.dir)
	if err != nil {
		return nil, fmt.Errorf("jira: %w", err)
	}

	docs := make([]document.Document, len(issues))
	for i, is := range issues {
		title := orDefault(is.Title, "Untitled")
		status := orDefault(is.Status, "Open")
		priority := orDefault(is.Priority, "Medium")

		content := fmt.Sprintf("Issue: %s\nDescription: %s\nStatus: %s\nPriority: %s\nAssignee: %s\nComments: %s",
			title, is.Description, status, priority, orDefault(is.Assignee, "Unassigned"), is.Comments)

		docs[i] = document.Document{
			Content: content,
			Metadata: document.Metadata{
				Source:    document.SourceJira,
				SourceID:  orDefault(is.ID, stem(files[i].RelPath)),
				Title:     title,
				Author:    orDefault(is.Reporter, "Unknown"),
				CreatedAt: parseTime(is.CreatedAt),
				UpdatedAt: parseTime(is.UpdatedAt),
				URL:       is.URL,
				Tags:      is.Labels,
				Extra: map[string]any{
					"issue_type": orDefault(is.IssueType, "Task"),
					"status":     status,
					"priority":   priority,
				},
			},
		}
	}
	return docs, nil
}

func (c *JiraConnector) FetchDocument(ctx context.Context, id string) (*document.Document, error) {
	return findDocument(ctx, c, id)
}

func (c *JiraConnector) Search(ctx context.Context, q string) ([]document.Document, error) {
	return searchDocuments(ctx, c, q)
}
