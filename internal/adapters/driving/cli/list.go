package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

var listJSON bool

var showText bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Long:  `Lists every document in the corpus in the order it was ingested.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [stored-name]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")
	showCmd.Flags().BoolVar(&showText, "text", false, "also print the full extracted text")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	records, err := retrievalService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		return outputRecordsJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for i := range records {
		cmd.Printf("  %s\n", records[i].StoredName)
		cmd.Printf("    Original: %s\n", records[i].OriginalName)
		cmd.Printf("    Title: %s\n", displayTitle(records[i]))
		if records[i].Type != nil {
			cmd.Printf("    Type: %s\n", *records[i].Type)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(records))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	storedName := args[0]
	records, err := retrievalService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	for i := range records {
		if records[i].StoredName == storedName {
			printRecord(cmd, records[i])
			return nil
		}
	}
	return fmt.Errorf("%w: document %s", domain.ErrNotFound, storedName)
}

func printRecord(cmd *cobra.Command, rec domain.MetadataRecord) {
	cmd.Printf("Document: %s\n", rec.StoredName)
	cmd.Printf("  Original name: %s\n", rec.OriginalName)
	cmd.Printf("  Title: %s\n", valueOrDash(rec.Title))
	cmd.Printf("  Author: %s\n", valueOrDash(rec.Author))
	cmd.Printf("  Type: %s\n", valueOrDash(rec.Type))
	cmd.Printf("  Issuing body: %s\n", valueOrDash(rec.IssuingBody))
	cmd.Printf("  Language: %s\n", valueOrDash(rec.Language))
	cmd.Printf("  Created: %s\n", valueOrDash(rec.CreatedAt))
	cmd.Printf("  Modified: %s\n", valueOrDash(rec.ModifiedAt))
	cmd.Printf("  Pages: %d\n", rec.PageCount)
	cmd.Printf("  Size: %.2f KiB\n", rec.SizeKiB)
	if len(rec.Tags) > 0 {
		cmd.Printf("  Tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.Summary != nil {
		cmd.Printf("  Summary: %s\n", *rec.Summary)
	}
	if showText {
		cmd.Println()
		cmd.Println(rec.FullText)
	}
}

func valueOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
