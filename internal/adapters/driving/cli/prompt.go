package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n') //nolint:errcheck // EOF means no
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
