package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/enterprise-search/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize esearch configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose model and embedding providers and source directories, and writes a .esearch.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (llm: %s/%s, embeddings: %s)\n",
			cfgFile, cfg.LLMProvider, cfg.LLMModel, cfg.EmbeddingProvider)
		if key := config.APIKeyEnvVar(cfg.LLMProvider); key != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in your environment or in %s before searching.\n", key, envFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
