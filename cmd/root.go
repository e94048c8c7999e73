package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/enterprise-search/internal/config"
	"github.com/ziadkadry99/enterprise-search/internal/logging"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "esearch",
	Short: "Natural-language search over company documents",
	Long: `esearch ingests documents from Confluence, Jira, Slack and plain files,
indexes them as embedded chunks, and answers natural-language questions
with cited answers synthesized by a language model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with API keys")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger returns the stderr logger for commands. Stdout is left to
// command output and the MCP protocol.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, verbose)
}
