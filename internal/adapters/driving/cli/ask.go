package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the ingested documents",
	Long: `Ask retrieves the most relevant chunks and answers using only them.
Pass --session to continue an earlier conversation; the session id is
printed with every answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Show the chunks most similar to a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	askCmd.Flags().StringP("session", "s", "", "Session id to continue")
	addOutputFlag(askCmd)
	searchCmd.Flags().IntP("limit", "n", domain.DefaultTopK, "Maximum number of chunks")
	addOutputFlag(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	session, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("getting session flag: %w", err)
	}

	answer, err := chatService.Answer(cmd.Context(), session, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	return render(cmd, answer, func() {
		printAnswer(cmd, answer)
		cmd.Printf("\nSession: %s\n", answer.SessionID)
	})
}

func printAnswer(cmd *cobra.Command, answer *domain.ChatAnswer) {
	cmd.Println(answer.Answer)
	if len(answer.Citations) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, c := range answer.Citations {
		if c.SourceLink != "" {
			cmd.Printf("  - %s [%s] %s\n", c.DocName, c.ChunkID, c.SourceLink)
			continue
		}
		cmd.Printf("  - %s [%s]\n", c.DocName, c.ChunkID)
	}
}

// searchHit is the serialised form of one retrieved chunk.
type searchHit struct {
	DocID   string  `json:"doc_id" yaml:"doc_id"`
	DocName string  `json:"doc_name" yaml:"doc_name"`
	ChunkID string  `json:"chunk_id" yaml:"chunk_id"`
	Score   float64 `json:"score" yaml:"score"`
	Text    string  `json:"text" yaml:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}

	results, err := chatService.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	hits := make([]searchHit, results.Len())
	for i, text := range results.Documents {
		meta := results.Metadatas[i]
		hits[i] = searchHit{DocID: meta.DocID, DocName: meta.DocName, ChunkID: meta.ChunkID, Text: text}
		if i < len(results.Scores) {
			hits[i].Score = results.Scores[i]
		}
	}

	return render(cmd, hits, func() {
		if len(hits) == 0 {
			cmd.Println("No matching chunks.")
			return
		}
		cmd.Printf("Results: %d\n\n", len(hits))
		for i, h := range hits {
			cmd.Printf("%d. %s [%s] (%.3f)\n", i+1, h.DocName, h.ChunkID, h.Score)
			cmd.Printf("   %s\n\n", preview(h.Text, 200))
		}
	})
}

// preview collapses whitespace and truncates to n runes.
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
