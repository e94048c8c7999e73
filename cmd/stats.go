package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and query statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg, newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.catalog.Stats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Fprintf(out, "Documents:      %d\n", st.TotalDocuments)
		fmt.Fprintf(out, "Chunks:         %d (index holds %d)\n", st.TotalChunks, a.index.Count())
		fmt.Fprintf(out, "Sources:        %d\n", st.SourcesConnected)
		sources := make([]string, 0, len(st.DocumentsBySource))
		for s := range st.DocumentsBySource {
			sources = append(sources, s)
		}
		slices.Sort(sources)
		for _, s := range sources {
			fmt.Fprintf(out, "  %-12s  %d\n", s, st.DocumentsBySource[s])
		}
		fmt.Fprintf(out, "Queries today:  %d\n", st.QueriesToday)
		fmt.Fprintf(out, "Avg latency:    %.0f ms\n", st.AvgLatencyMS)

		recent, err := a.catalog.RecentQueries(cmd.Context(), 5)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Fprintln(out, "\nRecent queries:")
			for _, q := range recent {
				fmt.Fprintf(out, "  %s  %q  %d results  [%s]\n",
					q.Timestamp.Local().Format("2006-01-02 15:04"), q.Query, q.ResultsCount, strings.Join(q.SourcesUsed, ", "))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}
