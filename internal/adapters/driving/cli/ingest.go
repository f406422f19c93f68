package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest files or the configured Drive folder",
	Long: `Ingest parses each file, stores its record and indexes its chunks.
A file that fails is reported and the rest continue.

Use --drive to fetch every file from the Google Drive folder configured by
GOOGLE_DRIVE_FOLDER_URL or GOOGLE_DRIVE_FOLDER_ID.

Examples:
  docqa ingest leaflet.pdf notes.docx
  docqa ingest --drive`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("drive", false, "Ingest the configured Google Drive folder")
	ingestCmd.Flags().String("link", "", "Source link recorded for the files")
	addOutputFlag(ingestCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	drive, err := cmd.Flags().GetBool("drive")
	if err != nil {
		return fmt.Errorf("getting drive flag: %w", err)
	}
	link, err := cmd.Flags().GetString("link")
	if err != nil {
		return fmt.Errorf("getting link flag: %w", err)
	}

	var results []domain.IngestResult
	switch {
	case drive:
		results, err = ingestService.IngestDrive(cmd.Context())
	case len(args) == 0:
		return errors.New("no files given; pass file paths or --drive")
	default:
		files := make([]driving.UploadedFile, 0, len(args))
		for _, path := range args {
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				results = append(results, domain.IngestResult{Name: filepath.Base(path), Error: readErr.Error()})
				continue
			}
			files = append(files, driving.UploadedFile{
				Name:       filepath.Base(path),
				Data:       data,
				Source:     domain.SourceUpload,
				SourceLink: link,
			})
		}
		var ingested []domain.IngestResult
		ingested, err = ingestService.IngestFiles(cmd.Context(), files)
		results = append(results, ingested...)
	}
	if err != nil {
		return fmt.Errorf("failed to ingest: %w", err)
	}

	return render(cmd, results, func() {
		printIngestResults(cmd, results)
	})
}

func printIngestResults(cmd *cobra.Command, results []domain.IngestResult) {
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			cmd.Printf("  FAIL %s: %s\n", r.Name, r.Error)
			continue
		}
		cmd.Printf("  OK   %s (%d chunks) %s\n", r.Name, r.ChunkCount, r.ID)
	}
	cmd.Printf("Ingested %d of %d files\n", len(results)-failed, len(results))
}
