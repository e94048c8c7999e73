package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/enterprise-search/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Answer a question from the indexed documents",
	Long:  `Interprets the question, retrieves the most relevant chunks and prints a synthesized answer with its citations.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("source", nil, "restrict the search to these sources")
	searchCmd.Flags().Int("max-results", 0, "number of chunks to retrieve (default from config)")
	searchCmd.Flags().Bool("json", false, "output the full response as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	sources, _ := cmd.Flags().GetStringSlice("source")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if maxResults < 0 {
		return fmt.Errorf("--max-results must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, newLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.index.Count() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Index is empty. Run `esearch ingest` first.")
		return nil
	}

	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	res := orch.Search(cmd.Context(), search.Request{
		Query:      args[0],
		Sources:    sources,
		MaxResults: maxResults,
	})

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(out, res.Answer)
	if len(res.Citations) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, c := range res.Citations {
			line := fmt.Sprintf("  [%d] %s: %s", c.SourceNumber, c.Source, c.Title)
			if c.URL != "" {
				line += " (" + c.URL + ")"
			}
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintf(out, "\nConfidence %.2f | searched %s | %d ms\n",
		res.Confidence, strings.Join(res.SourcesSearched, ", "), res.LatencyMS)
	return nil
}
