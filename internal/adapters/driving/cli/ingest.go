package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest local documents",
	Long: `Runs each file through extraction, similarity scoring and classification,
then adds its metadata to the corpus. Files are processed in order; the first
failure stops the run and nothing is recorded for the failing file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	results := make([]*domain.IngestResult, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		name := filepath.Base(path)
		result, err := ingestService.Ingest(cmd.Context(), domain.Upload{
			OriginalName: name,
			MIMEType:     mime.TypeByExtension(filepath.Ext(name)),
			Content:      content,
		})
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		if !ingestJSON {
			printIngestResult(cmd, result)
		}
		results = append(results, result)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	rec := result.Metadata
	cmd.Printf("Ingested %s as %s\n", rec.OriginalName, rec.StoredName)
	printField(cmd, "Title", rec.Title)
	printField(cmd, "Type", rec.Type)
	printField(cmd, "Issuing body", rec.IssuingBody)
	printField(cmd, "Language", rec.Language)
	cmd.Printf("  Pages: %d, Size: %.2f KiB\n", rec.PageCount, rec.SizeKiB)

	if len(result.Similarities) == 0 {
		cmd.Println("  No earlier documents to compare against.")
	} else {
		cmd.Println("  Most similar:")
		for _, m := range result.Similarities {
			cmd.Printf("    %8s  %s\n", m.Similarity, m.Document)
		}
	}
	cmd.Println()
}

func printField(cmd *cobra.Command, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	cmd.Printf("  %s: %s\n", label, *value)
}
