package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/enterprise-search/internal/indexer"
	"github.com/ziadkadry99/enterprise-search/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch documents from the configured sources and index them",
	Long: `Fetches every document from each configured connector, splits it into
overlapping chunks, embeds the chunks and stores them in the index.
Re-running ingest overwrites chunks in place. A failing connector is
reported and the remaining connectors still run.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSlice("source", nil, "only ingest these sources (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	only, _ := cmd.Flags().GetStringSlice("source")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sources := a.registry.Sources()
	if len(only) > 0 {
		for _, s := range only {
			if !slices.Contains(sources, s) {
				return fmt.Errorf("unknown source %q (configured: %v)", s, sources)
			}
		}
		sources = only
	}

	out := cmd.OutOrStdout()
	var total indexer.Result
	var failed []string
	for _, source := range sources {
		conn, _ := a.registry.Get(source)

		docs, err := conn.FetchDocuments(ctx)
		if err != nil {
			logger.Error("fetching documents failed", "source", source, "error", err)
			failed = append(failed, source)
			continue
		}
		if len(docs) == 0 {
			fmt.Fprintf(out, "%s: no documents\n", source)
			continue
		}

		reporter := progress.NewReporter(os.Stderr)
		reporter.Start(source, len(docs))
		a.pipeline.SetProgressFunc(reporter.Update)
		res := a.pipeline.Ingest(ctx, docs)
		reporter.Finish(fmt.Sprintf("%s: %d documents, %d chunks, status %s",
			source, res.DocumentsProcessed, res.ChunksCreated, res.Status))

		if res.Status == indexer.StatusFailed {
			failed = append(failed, source)
		}

		total.DocumentsProcessed += res.DocumentsProcessed
		total.DocumentsFailed += res.DocumentsFailed
		total.ChunksCreated += res.ChunksCreated
	}

	fmt.Fprintf(out, "Ingested %d documents (%d failed), %d chunks; index holds %d chunks\n",
		total.DocumentsProcessed, total.DocumentsFailed, total.ChunksCreated, a.index.Count())

	if len(failed) > 0 && len(failed) == len(sources) {
		return fmt.Errorf("every source failed: %v", failed)
	}
	if len(failed) > 0 {
		fmt.Fprintf(out, "Sources with failures: %v\n", failed)
	}
	return nil
}
