package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/enterprise-search/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing corpus search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol.
		logger := newLogger()

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		orch, err := a.orchestrator()
		if err != nil {
			return err
		}

		if a.index.Count() == 0 {
			logger.Warn("index is empty, run `esearch ingest` first")
		}

		mcpserver.Version = Version
		logger.Info("esearch MCP server started on stdio", "chunks_indexed", a.index.Count())

		srv := mcpserver.NewServer(orch, a.catalog, a.registry)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
