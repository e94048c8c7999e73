package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/search"
)

// handleSearchCorpus runs one orchestrated search.
func (s *Server) handleSearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	maxResults := request.GetInt("max_results", 0)
	if maxResults < 0 {
		return mcp.NewToolResultError("max_results must not be negative"), nil
	}

	res := s.searcher.Search(ctx, search.Request{
		Query:      query,
		Sources:    splitSources(request.GetString("sources", "")),
		MaxResults: maxResults,
	})

	return mcp.NewToolResultText(formatResponse(res)), nil
}

// handleListSources reports the known sources with document counts.
func (s *Server) handleListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	known := s.searcher.KnownSources()

	var sources []catalog.Source
	if s.catalog != nil {
		var err error
		if sources, err = s.catalog.Sources(ctx, known); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing sources failed: %v", err)), nil
		}
	} else {
		for _, id := range known {
			sources = append(sources, catalog.Source{ID: id, Name: id})
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d source(s):\n", len(sources)))
	for _, src := range sources {
		sb.WriteString(fmt.Sprintf("- %s (%s): %d document(s)", src.ID, src.Name, src.Documents))
		if src.Description != "" {
			sb.WriteString(" - " + src.Description)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetDocument fetches one document through its connector.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: source"), nil
	}
	id, err := request.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: source_id"), nil
	}

	if s.registry == nil {
		return mcp.NewToolResultError("no connectors are configured"), nil
	}
	conn, ok := s.registry.Get(source)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown source %q", source)), nil
	}

	doc, err := conn.FetchDocument(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching document failed: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no %s document with id %q", source, id)), nil
	}

	md := doc.Metadata
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title: %s\n", md.Title))
	sb.WriteString(fmt.Sprintf("Source: %s:%s\n", md.Source, md.SourceID))
	if md.Author != "" {
		sb.WriteString(fmt.Sprintf("Author: %s\n", md.Author))
	}
	if md.URL != "" {
		sb.WriteString(fmt.Sprintf("URL: %s\n", md.URL))
	}
	sb.WriteString("\n")
	sb.WriteString(doc.Content)
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

func splitSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// formatResponse renders a search response as plain text for an agent.
func formatResponse(res search.Response) string {
	var sb strings.Builder
	sb.WriteString(res.Answer)
	sb.WriteString("\n")

	if len(res.Citations) > 0 {
		sb.WriteString("\nCitations:\n")
		for _, c := range res.Citations {
			sb.WriteString(fmt.Sprintf("[Source %d] %s: %s", c.SourceNumber, c.Source, c.Title))
			if c.URL != "" {
				sb.WriteString(" <" + c.URL + ">")
			}
			sb.WriteString("\n")
		}
	}

	if len(res.Documents) > 0 {
		sb.WriteString(fmt.Sprintf("\nFound %d document(s):\n", len(res.Documents)))
		for i, d := range res.Documents {
			sb.WriteString(fmt.Sprintf("\n--- Document %d ---\n", i+1))
			sb.WriteString(fmt.Sprintf("Source: %s\nTitle: %s\nScore: %.3f\n", d.Source, d.Title, d.Score))
			if d.URL != "" {
				sb.WriteString(fmt.Sprintf("URL: %s\n", d.URL))
			}
			sb.WriteString("\n")
			sb.WriteString(d.Excerpt)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nConfidence: %.0f%%\nSources searched: %s\n",
		res.Confidence*100, strings.Join(res.SourcesSearched, ", ")))
	return sb.String()
}
