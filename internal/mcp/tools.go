package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchCorpusTool defines the search_corpus MCP tool.
var searchCorpusTool = mcp.NewTool("search_corpus",
	mcp.WithDescription("Answer a question from the indexed company documents (Confluence, Jira, Slack, files). Returns a cited answer and the supporting documents."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithString("sources",
		mcp.Description("Comma-separated sources to search, e.g. \"jira,slack\". Defaults to the sources implied by the query."),
	),
	mcp.WithNumber("max_results",
		mcp.Description("Maximum number of documents to retrieve (default 5)"),
	),
)

// listSourcesTool defines the list_sources MCP tool.
var listSourcesTool = mcp.NewTool("list_sources",
	mcp.WithDescription("List the searchable sources and how many documents each holds."),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Fetch the full text of one document from its source."),
	mcp.WithString("source",
		mcp.Required(),
		mcp.Description("Source system"),
		mcp.Enum("confluence", "jira", "slack", "documents"),
	),
	mcp.WithString("source_id",
		mcp.Required(),
		mcp.Description("Identifier of the document within its source"),
	),
)
