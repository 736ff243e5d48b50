package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/prompts"
)

var listModesCmd = &cobra.Command{
	Use:   "list-modes",
	Short: "List all available prompt modes",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Print("Available Prompt Modes:\n\n")
		for _, m := range prompts.Modes() {
			fmt.Printf("  • %-18s %s\n", m, prompts.Describe(m))
		}
	},
}
