package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a report from uploaded documents",
	Long: `Report retrieves the chunks matching each section title from uploaded
documents, includes their tables, and renders a PDF.

Examples:
  docqa report --section "Dosage" --section "Side effects"
  docqa report -s Dosage --summary --out dosage.pdf`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringArrayP("section", "s", nil, "Section title (repeatable)")
	reportCmd.Flags().Bool("summary", false, "Append a model-written summary")
	reportCmd.Flags().String("out", "", "Copy the rendered report to this path")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	sections, err := cmd.Flags().GetStringArray("section")
	if err != nil {
		return fmt.Errorf("getting section flag: %w", err)
	}
	if len(sections) == 0 {
		return errors.New("at least one --section is required")
	}
	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return fmt.Errorf("getting summary flag: %w", err)
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("getting out flag: %w", err)
	}

	id, err := reportService.Build(cmd.Context(), domain.ReportRequest{
		Sections:       sections,
		IncludeSummary: summary,
	})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	path, err := reportService.Path(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to locate report: %w", err)
	}

	if out != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading report: %w", err)
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		path = out
	}

	cmd.Printf("Report %s written to %s\n", id, path)
	return nil
}
