package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secagent/secagent/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show the tools the agent can call",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		registry := tools.NewCatalog(tools.CatalogOptions{
			WorkingDir:     cfg.WorkingDirPath(),
			CommandTimeout: cfg.Tools.CommandTimeout,
		})
		fmt.Println(tools.Summary(registry))
		return nil
	},
}
