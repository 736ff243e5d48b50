package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/config"
	"github.com/secagent/secagent/internal/shared/cmdutils"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	Args:  cobra.NoArgs,
	RunE:  runOnboard,
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	cfgPath := configPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		// Flags given to onboard become the stored defaults.
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	fmt.Printf("\n%s secagent is ready!\n\n", cmdutils.Logo)
	fmt.Println("Next steps:")
	fmt.Println("  1. Start Ollama: ollama serve")
	fmt.Println("  2. Pull a model: ollama pull llama2")
	fmt.Println("  3. Check the connection: secagent check-connection")
	fmt.Println("  4. Chat: secagent interactive")
	return nil
}
