package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage ingested documents",
	Long:    `List, inspect and delete ingested documents. Deleting a document also removes its chunks from the index.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document and reset the index",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsClear,
}

func init() {
	addOutputFlag(documentsListCmd)
	addOutputFlag(documentsGetCmd)
	documentsClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsClearCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	return render(cmd, docs, func() {
		if len(docs) == 0 {
			cmd.Println("No documents ingested.")
			return
		}
		for i := range docs {
			cmd.Printf("  %s\n", docs[i].ID)
			cmd.Printf("    Name:   %s\n", docs[i].Name)
			cmd.Printf("    Source: %s\n", docs[i].Source)
			cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
			cmd.Println()
		}
		cmd.Printf("Total: %d documents\n", len(docs))
	})
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	return render(cmd, doc, func() {
		cmd.Printf("Document: %s\n\n", doc.ID)
		cmd.Printf("  Name:     %s\n", doc.Name)
		cmd.Printf("  Source:   %s\n", doc.Source)
		if doc.SourceLink != "" {
			cmd.Printf("  Link:     %s\n", doc.SourceLink)
		}
		cmd.Printf("  Path:     %s\n", doc.Path)
		cmd.Printf("  Chunks:   %d\n", doc.ChunkCount)
		cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		for i, table := range doc.Tables {
			cmd.Printf("\n  Table %d:\n", i+1)
			for _, line := range strings.Split(table, "\n") {
				cmd.Printf("    %s\n", line)
			}
		}
	})
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s (%s)\n", doc.ID, doc.Name)
	return nil
}

func runDocumentsClear(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("getting yes flag: %w", err)
	}
	if !yes && !confirm(cmd, "Delete every document and reset the index?") {
		cmd.Println("Aborted.")
		return nil
	}

	n, err := documentService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	cmd.Printf("Cleared %d documents\n", n)
	return nil
}
