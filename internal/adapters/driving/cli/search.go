package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Performs a case-insensitive keyword search across every text field of the
corpus: names, title, author, type, issuing body, summary, language, dates and
the full extracted text. An empty query matches every document.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	results, err := retrievalService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if searchJSON {
		return outputRecordsJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputRecordsJSON(cmd *cobra.Command, records []domain.MetadataRecord) error {
	views := make([]domain.MetadataRecord, len(records))
	for i := range records {
		views[i] = records[i].ListView(domain.DefaultExcerptLength)
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, records []domain.MetadataRecord) error {
	if len(records) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range records {
		// Format: [N] Title (original name)
		cmd.Printf("  [%d] %s (%s)\n", i+1, displayTitle(records[i]), records[i].OriginalName)
		if records[i].Summary != nil && *records[i].Summary != "" {
			cmd.Printf("      %s\n", *records[i].Summary)
		}
		cmd.Println()
	}

	return nil
}

func displayTitle(rec domain.MetadataRecord) string {
	if rec.Title != nil && *rec.Title != "" {
		return *rec.Title
	}
	return rec.OriginalName
}
