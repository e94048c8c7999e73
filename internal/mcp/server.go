// Package mcp exposes the search pipeline as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/enterprise-search/internal/catalog"
	"github.com/ziadkadry99/enterprise-search/internal/connectors"
	"github.com/ziadkadry99/enterprise-search/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Searcher answers search requests.
type Searcher interface {
	Search(ctx context.Context, req search.Request) search.Response
	KnownSources() []string
}

// Server wraps an MCP server that exposes corpus search tools.
type Server struct {
	searcher Searcher
	catalog  *catalog.Store
	registry *connectors.Registry
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. store and registry may be nil; the
// tools that need them then degrade to what the searcher knows.
func NewServer(searcher Searcher, store *catalog.Store, registry *connectors.Registry) *Server {
	s := &Server{
		searcher: searcher,
		catalog:  store,
		registry: registry,
	}

	s.mcp = server.NewMCPServer(
		"esearch",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCorpusTool, s.handleSearchCorpus)
	s.mcp.AddTool(listSourcesTool, s.handleListSources)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
