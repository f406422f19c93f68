package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the AI backends were resolved",
	Long: `Status reports the language model and embedding backends chosen at
startup. With --check it also pings each backend and exits non-zero if any
is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("check", false, "Ping every backend")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("getting check flag: %w", err)
	}

	st := statusService.Status()
	if st.LLMEnabled {
		cmd.Printf("LLM:        %s (%s)\n", st.LLMModel, st.LLMProvider)
	} else {
		cmd.Println("LLM:        unavailable (answers fall back to the top retrieved chunk)")
	}
	cmd.Printf("Embeddings: %s (%s)\n", st.EmbeddingModel, st.EmbeddingMode)
	cmd.Printf("Vectors:    %s\n", st.VectorBackend)

	if !check || runtime == nil || runtime.Check == nil {
		return nil
	}

	errs := runtime.Check(cmd.Context())
	if len(errs) == 0 {
		cmd.Println("\nAll backends reachable.")
		return nil
	}
	cmd.Println()
	for _, e := range errs {
		cmd.Printf("  - %v\n", e)
	}
	return fmt.Errorf("%d backend(s) unavailable", len(errs))
}
