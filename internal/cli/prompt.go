package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/config"
)

func promptYesNo(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))

	return answer == "y" || answer == "yes"
}

// confirm asks question unless --yes was given or skip_confirmations is set.
func confirm(cmd *cobra.Command, cfg *config.Configuration, yes bool, question string) bool {
	if yes || cfg.SkipConfirmations {
		return true
	}
	return promptYesNo(cmd, question)
}
