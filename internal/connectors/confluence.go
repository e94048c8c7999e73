package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ziadkadry99/enterprise-search/internal/document"
)

// confluencePageSize is the page size requested from the REST API.
const confluencePageSize = 50

// ConfluenceConfig holds configuration for a Confluence connection. When
// BaseURL is empty pages are read from exported JSON files in Dir.
type ConfluenceConfig struct {
	Dir      string
	BaseURL  string
	Username string
	APIToken string
	SpaceKey string
}

// ConfluenceConnector reads Confluence pages from the REST API or from
// exported JSON files.
type ConfluenceConnector struct {
	config     ConfluenceConfig
	httpClient *http.Client
}

// NewConfluenceConnector creates a new Confluence connector.
func NewConfluenceConnector(config ConfluenceConfig) *ConfluenceConnector {
	return &ConfluenceConnector{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ConfluenceConnector) Source() string { return document.SourceConfluence }

func (c *ConfluenceConnector) FetchDocuments(ctx context.Context) ([]document.Document, error) {
	if c.config.BaseURL != "" {
		return c.fetchRemote(ctx)
	}
	return c.fetchFiles(ctx)
}

func (c *ConfluenceConnector) FetchDocument(ctx context.Context, id string) (*document.Document, error) {
	return findDocument(ctx, c, id)
}

func (c *ConfluenceConnector) Search(ctx context.Context, q string) ([]document.Document, error) {
	return searchDocuments(ctx, c, q)
}

type confluenceExport struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	Space     string   `json:"space"`
	Type      string   `json:"type"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	URL       string   `json:"url"`
	Tags      []string `json:"tags"`
}

func (c *ConfluenceConnector) fetchFiles(ctx context.Context) ([]document.Document, error) {
	pages, files, err := readJSONFiles[confluenceExport](ctx, c.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("confluence: %w", err)
	}

	docs := make([]document.Document, len(pages))
	for i, p := range pages {
		extra := map[string]any{}
		if p.Space != "" {
			extra["space"] = p.Space
		}
		if p.Type != "" {
			extra["page_type"] = p.Type
		}
		docs[i] = document.Document{
			Content: p.Content,
			Metadata: document.Metadata{
				Source:    document.SourceConfluence,
				SourceID:  orDefault(p.ID, stem(files[i].RelPath)),
				Title:     orDefault(p.Title, "Untitled"),
				Author:    p.Author,
				CreatedAt: parseTime(p.CreatedAt),
				UpdatedAt: parseTime(p.UpdatedAt),
				URL:       p.URL,
				Tags:      p.Tags,
				Extra:     extra,
			},
		}
	}
	return docs, nil
}

// confluenceSearchResult represents the Confluence content API response.
type confluenceSearchResult struct {
	Results []confluencePage `json:"results"`
	Size    int              `json:"size"`
}

type confluencePage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	History struct {
		CreatedDate string `json:"createdDate"`
		CreatedBy   struct {
			DisplayName string `json:"displayName"`
		} `json:"createdBy"`
	} `json:"history"`
	Version struct {
		When string `json:"when"`
	} `json:"version"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// fetchRemote pages through every page of the configured space.
func (c *ConfluenceConnector) fetchRemote(ctx context.Context) ([]document.Document, error) {
	base := strings.TrimRight(c.config.BaseURL, "/")
	var docs []document.Document

	for start := 0; ; start += confluencePageSize {
		endpoint := fmt.Sprintf("%s/rest/api/content?spaceKey=%s&expand=body.storage,version,history&limit=%d&start=%d",
			base, url.QueryEscape(c.config.SpaceKey), confluencePageSize, start)

		result, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("confluence: %w", err)
		}

		for _, page := range result.Results {
			docs = append(docs, document.Document{
				Content: htmlToPlainText(page.Body.Storage.Value),
				Metadata: document.Metadata{
					Source:    document.SourceConfluence,
					SourceID:  page.ID,
					Title:     page.Title,
					Author:    page.History.CreatedBy.DisplayName,
					CreatedAt: parseTime(page.History.CreatedDate),
					UpdatedAt: parseTime(page.Version.When),
					URL:       base + page.Links.WebUI,
					Extra:     map[string]any{"space": c.config.SpaceKey},
				},
			})
		}

		if result.Size < confluencePageSize {
			return docs, nil
		}
	}
}

func (c *ConfluenceConnector) get(ctx context.Context, endpoint string) (*confluenceSearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.config.Username, c.config.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching pages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var result confluenceSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}

var (
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	htmlBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlBlockRegex = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|tr)>`)
)

// htmlToPlainText reduces Confluence storage-format HTML to text, one
// block per line.
func htmlToPlainText(storage string) string {
	text := htmlBreakRegex.ReplaceAllString(storage, "\n")
	text = htmlBlockRegex.ReplaceAllString(text, "\n")
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
