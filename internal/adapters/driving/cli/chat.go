package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Chat opens a terminal UI when run in a terminal, and reads one question
per line otherwise, so it can be scripted:

  printf 'What is the dosage?\nAnd for children?\n' | docqa chat

Controls:
  enter    - Ask
  ctrl+l   - Start a new conversation
  tab      - Browse documents
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringP("session", "s", "", "Session id to continue (line mode)")
	chatCmd.Flags().Bool("plain", false, "Use line mode even in a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return fmt.Errorf("getting plain flag: %w", err)
	}
	if !plain && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return runChatTUI(cmd)
	}

	session, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("getting session flag: %w", err)
	}
	return runChatLines(cmd, session)
}

func runChatTUI(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Chat:     chatService,
		Document: documentService,
		Status:   statusService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runChatLines answers one question per input line in a single session.
func runChatLines(cmd *cobra.Command, session string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := chatService.Answer(cmd.Context(), session, question)
		if err != nil {
			return fmt.Errorf("failed to answer: %w", err)
		}
		session = answer.SessionID

		cmd.Printf("> %s\n", question)
		printAnswer(cmd, answer)
		cmd.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if session != "" {
		cmd.Printf("Session: %s\n", session)
	}
	return nil
}
